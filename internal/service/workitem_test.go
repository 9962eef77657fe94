package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/pbi-relay/internal/lib/devops"
	"github.com/deppfellow/pbi-relay/internal/workitem"
)

type fakeCreator struct {
	token bool
	err   error
	got   workitem.PatchDocument
}

func (f *fakeCreator) CreateWorkItem(_ context.Context, doc workitem.PatchDocument) (*devops.WorkItem, error) {
	f.got = doc
	if f.err != nil {
		return nil, f.err
	}
	return &devops.WorkItem{ID: 42}, nil
}

func (f *fakeCreator) HasToken() bool {
	return f.token
}

func TestWorkItemServiceCreate(t *testing.T) {
	creator := &fakeCreator{token: true}
	svc := NewWorkItemService(creator)

	created, err := svc.Create(context.Background(), workitem.Fields{
		Title:       "t",
		Description: "d",
		Priority:    workitem.PriorityMedium,
		Effort:      8,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	require.Len(t, creator.got, 5)
	assert.Equal(t, 1, creator.got[3].Value)
	assert.Equal(t, 8, creator.got[4].Value)
}

func TestWorkItemServiceCreatePassesErrorsThrough(t *testing.T) {
	apiErr := &devops.APIError{StatusCode: 404}
	svc := NewWorkItemService(&fakeCreator{token: true, err: apiErr})

	_, err := svc.Create(context.Background(), workitem.Fields{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apiErr))
}

func TestWorkItemServiceConfigured(t *testing.T) {
	assert.True(t, NewWorkItemService(&fakeCreator{token: true}).Configured())
	assert.False(t, NewWorkItemService(&fakeCreator{}).Configured())
}
