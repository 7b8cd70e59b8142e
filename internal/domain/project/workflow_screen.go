package project

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nsgarcia11/bathroom-estimator/internal/domain/shared"
)

// MaxScreenDataBytes bounds the size of a screen's JSON document
const MaxScreenDataBytes = 64 * 1024

var emptyObject = json.RawMessage(`{}`)

// ScreenSections is the expected shape of a screen's data document.
// Unknown top-level keys are kept as-is.
type ScreenSections struct {
	Measurements json.RawMessage `json:"measurements,omitempty"`
	Design       json.RawMessage `json:"design,omitempty"`
	Construction json.RawMessage `json:"construction,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// WorkflowScreen stores the user's answers for one category of one project.
// There is exactly one screen per (project, category).
type WorkflowScreen struct {
	shared.OwnedAggregateRoot
	ProjectID uuid.UUID
	Category  Category
	Data      json.RawMessage
	Completed bool
}

// NewWorkflowScreen creates an empty screen
func NewWorkflowScreen(ownerID, projectID uuid.UUID, category Category) (*WorkflowScreen, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+string(category))
	}
	return &WorkflowScreen{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		ProjectID:          projectID,
		Category:           category,
		Data:               emptyObject,
	}, nil
}

// Save replaces the screen's data document
func (s *WorkflowScreen) Save(data json.RawMessage, completed bool) error {
	normalized, err := NormalizeScreenData(data)
	if err != nil {
		return err
	}
	s.Data = normalized
	s.Completed = completed
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewScreenSavedEvent(s))
	return nil
}

// Sections decodes the standard sections of the data document
func (s *WorkflowScreen) Sections() (ScreenSections, error) {
	var sections ScreenSections
	if len(s.Data) == 0 {
		return sections, nil
	}
	if err := json.Unmarshal(s.Data, &sections); err != nil {
		return sections, shared.WrapDomainError("INVALID_SCREEN_DATA", "Screen data is not valid", err)
	}
	return sections, nil
}

// IsEmpty reports whether no answers have been stored
func (s *WorkflowScreen) IsEmpty() bool {
	trimmed := bytes.TrimSpace(s.Data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, emptyObject)
}

// NormalizeScreenData checks that data is a JSON object within the size limit
// and returns it compacted. Empty input becomes {}.
func NormalizeScreenData(data json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyObject, nil
	}
	if len(trimmed) > MaxScreenDataBytes {
		return nil, shared.NewDomainError("SCREEN_DATA_TOO_LARGE", "Screen data exceeds 64KB")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, shared.NewDomainError("INVALID_SCREEN_DATA", "Screen data must be a JSON object")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, shared.NewDomainError("INVALID_SCREEN_DATA", "Screen data must be a JSON object")
	}
	return json.RawMessage(buf.Bytes()), nil
}
