package ticket

import (
	"strings"

	"github.com/ticketflow/backend/internal/domain/shared"
)

// Type classifies a draft ticket
type Type string

const (
	TypeTask  Type = "task"
	TypeStory Type = "story"
	TypeBug   Type = "bug"
)

// Priority ranks a draft ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether the type is one of the known literals
func (t Type) IsValid() bool {
	switch t {
	case TypeTask, TypeStory, TypeBug:
		return true
	}
	return false
}

// IssueTypeName returns the Jira issue-type name for this draft type,
// which is simply the capitalized form ("task" -> "Task")
func (t Type) IssueTypeName() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsValid reports whether the priority is one of the known literals
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Draft is a proposed work ticket extracted from a document. Drafts are
// ephemeral: they exist only in the generate response and in whatever the
// caller submits back for publishing, and are never persisted here.
type Draft struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Type            Type     `json:"type"`
	Priority        Priority `json:"priority"`
	EstimatedPoints *float64 `json:"estimatedPoints,omitempty"`
}

// Validate checks the draft shape: non-empty title and description, known
// type and priority literals, and a positive points estimate when present
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Ticket title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Ticket description is required")
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Ticket type must be task, story or bug")
	}
	if !d.Priority.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Ticket priority must be low, medium or high")
	}
	if d.EstimatedPoints != nil && *d.EstimatedPoints <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Estimated points must be positive")
	}
	return nil
}
