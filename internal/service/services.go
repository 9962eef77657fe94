package service

import (
	"github.com/deppfellow/pbi-relay/internal/server"
)

// Services groups every service the handlers depend on.
type Services struct {
	WorkItem *WorkItemService
}

// NewServices builds the container from the shared server dependencies.
func NewServices(s *server.Server) *Services {
	return &Services{
		WorkItem: NewWorkItemService(s.DevOps),
	}
}
