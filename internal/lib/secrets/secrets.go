// Package secrets resolves the Azure DevOps PAT from AWS Secrets Manager
// when it is not provided through the environment.
package secrets

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/pbi-relay/internal/config"
)

// SecretsManagerAPI is the part of *secretsmanager.Client the resolver uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver fills DevOpsConfig.PAT from a named secret.
type Resolver struct {
	client SecretsManagerAPI
	logger *zerolog.Logger
}

// NewResolver wraps an existing Secrets Manager client.
func NewResolver(client SecretsManagerAPI, logger *zerolog.Logger) *Resolver {
	return &Resolver{client: client, logger: logger}
}

// NewAWSResolver loads the default AWS config (optionally pinned to region)
// and builds a Resolver on a real Secrets Manager client.
func NewAWSResolver(ctx context.Context, region string, logger *zerolog.Logger) (*Resolver, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load default aws config")
	}

	return NewResolver(secretsmanager.NewFromConfig(awsCfg), logger), nil
}

// Resolve sets cfg.PAT from cfg.SecretName. It does nothing when a PAT is
// already present or no secret is named.
//
// The secret may hold the bare token or a JSON object with an
// "AZURE_DEVOPS_PAT" or "pat" key.
func (r *Resolver) Resolve(ctx context.Context, cfg *config.DevOpsConfig) error {
	if cfg.HasCredential() || cfg.SecretName == "" {
		return nil
	}

	r.logger.Info().Str("secret_name", cfg.SecretName).Msg("retrieving personal access token from secrets manager")

	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SecretName),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to get secret %s", cfg.SecretName)
	}
	if out.SecretString == nil {
		return errors.Errorf("secret %s has no string value", cfg.SecretName)
	}

	pat := extractToken(*out.SecretString)
	if pat == "" {
		return errors.Errorf("secret %s is empty", cfg.SecretName)
	}

	cfg.PAT = pat
	r.logger.Info().Str("secret_name", cfg.SecretName).Msg("personal access token retrieved")

	return nil
}

func extractToken(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") {
		return value
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return ""
	}
	for _, key := range []string{config.PATEnvVar, "pat"} {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return v
		}
	}
	return ""
}
