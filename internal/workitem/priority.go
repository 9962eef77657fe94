// Package workitem holds the Azure DevOps product backlog item model: the
// priority labels callers send and the json-patch document the work-item
// creation route expects.
package workitem

import (
	"errors"
	"strings"
)

// Priority is the integer Azure DevOps stores in Microsoft.VSTS.Common.Priority.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// ErrInvalidPriority is returned for any label outside alta/media/baja.
var ErrInvalidPriority = errors.New("priority must be 'alta', 'media' or 'baja'")

var priorities = map[string]Priority{
	"alta":  PriorityHigh,
	"media": PriorityMedium,
	"baja":  PriorityLow,
}

// ParsePriority maps a label to its Priority, ignoring case.
func ParsePriority(label string) (Priority, error) {
	p, ok := priorities[strings.ToLower(label)]
	if !ok {
		return 0, ErrInvalidPriority
	}
	return p, nil
}
