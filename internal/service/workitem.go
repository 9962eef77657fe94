package service

import (
	"context"

	"github.com/deppfellow/pbi-relay/internal/lib/devops"
	"github.com/deppfellow/pbi-relay/internal/workitem"
)

// WorkItemCreator is the outbound side of WorkItemService.
type WorkItemCreator interface {
	CreateWorkItem(ctx context.Context, doc workitem.PatchDocument) (*devops.WorkItem, error)
	HasToken() bool
}

// WorkItemService creates product backlog items.
type WorkItemService struct {
	creator WorkItemCreator
}

func NewWorkItemService(creator WorkItemCreator) *WorkItemService {
	return &WorkItemService{creator: creator}
}

// Configured reports whether a credential was injected.
func (s *WorkItemService) Configured() bool {
	return s.creator.HasToken()
}

// Create sends one creation request built from fields. Errors come straight
// from the creator; see devops.Client.CreateWorkItem.
func (s *WorkItemService) Create(ctx context.Context, fields workitem.Fields) (*devops.WorkItem, error) {
	return s.creator.CreateWorkItem(ctx, workitem.NewPatchDocument(fields))
}
