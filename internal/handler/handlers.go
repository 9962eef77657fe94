package handler

import (
	"github.com/deppfellow/pbi-relay/internal/server"
	"github.com/deppfellow/pbi-relay/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	WorkItem *WorkItemHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		WorkItem: NewWorkItemHandler(s, services.WorkItem),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
