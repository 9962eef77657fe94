package workitem

// Field paths set on every created item.
const (
	FieldTitle       = "/fields/System.Title"
	FieldState       = "/fields/System.State"
	FieldDescription = "/fields/System.Description"
	FieldPriority    = "/fields/Microsoft.VSTS.Common.Priority"
	FieldEffort      = "/fields/Custom.Effort"
)

// OpAdd is the only operation the relay emits.
const OpAdd = "add"

// PatchOperation is one entry of a json-patch document.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// PatchDocument is the body of a work-item creation request.
type PatchDocument []PatchOperation

// Fields are the values a new item is created with.
type Fields struct {
	Title       string
	State       string
	Description string
	Priority    Priority
	Effort      int
}

// NewPatchDocument builds the five add operations in the order Azure
// DevOps receives them: title, state, description, priority, effort.
func NewPatchDocument(f Fields) PatchDocument {
	return PatchDocument{
		{Op: OpAdd, Path: FieldTitle, Value: f.Title},
		{Op: OpAdd, Path: FieldState, Value: f.State},
		{Op: OpAdd, Path: FieldDescription, Value: f.Description},
		{Op: OpAdd, Path: FieldPriority, Value: int(f.Priority)},
		{Op: OpAdd, Path: FieldEffort, Value: f.Effort},
	}
}
