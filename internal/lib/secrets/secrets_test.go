package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/pbi-relay/internal/config"
)

type fakeSecretsManager struct {
	value *string
	err   error
	calls int
	asked string
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	f.asked = aws.ToString(params.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func newTestResolver(f *fakeSecretsManager) *Resolver {
	logger := zerolog.Nop()
	return NewResolver(f, &logger)
}

func TestResolveRawSecret(t *testing.T) {
	fake := &fakeSecretsManager{value: aws.String("  raw-token \n")}
	cfg := &config.DevOpsConfig{SecretName: "pbi-relay/pat"}

	require.NoError(t, newTestResolver(fake).Resolve(context.Background(), cfg))
	assert.Equal(t, "raw-token", cfg.PAT)
	assert.Equal(t, "pbi-relay/pat", fake.asked)
}

func TestResolveJSONSecret(t *testing.T) {
	fake := &fakeSecretsManager{value: aws.String(`{"AZURE_DEVOPS_PAT":"json-token"}`)}
	cfg := &config.DevOpsConfig{SecretName: "pbi-relay/pat"}

	require.NoError(t, newTestResolver(fake).Resolve(context.Background(), cfg))
	assert.Equal(t, "json-token", cfg.PAT)
}

func TestResolveSkipsWhenPATPresent(t *testing.T) {
	fake := &fakeSecretsManager{value: aws.String("other")}
	cfg := &config.DevOpsConfig{PAT: "env-token", SecretName: "pbi-relay/pat"}

	require.NoError(t, newTestResolver(fake).Resolve(context.Background(), cfg))
	assert.Equal(t, "env-token", cfg.PAT)
	assert.Zero(t, fake.calls)
}

func TestResolveSkipsWithoutSecretName(t *testing.T) {
	fake := &fakeSecretsManager{}
	cfg := &config.DevOpsConfig{}

	require.NoError(t, newTestResolver(fake).Resolve(context.Background(), cfg))
	assert.Zero(t, fake.calls)
}

func TestResolveErrors(t *testing.T) {
	cases := map[string]*fakeSecretsManager{
		"api failure":   {err: errors.New("AccessDeniedException")},
		"binary secret": {},
		"empty json":    {value: aws.String(`{"other":"x"}`)},
	}
	for name, fake := range cases {
		cfg := &config.DevOpsConfig{SecretName: "pbi-relay/pat"}
		err := newTestResolver(fake).Resolve(context.Background(), cfg)
		assert.Error(t, err, name)
		assert.Empty(t, cfg.PAT, name)
	}
}
