package jira

import "encoding/json"

// StoryPointsField is the custom field id Jira Cloud uses for story point
// estimates on company-managed projects.
const StoryPointsField = "customfield_10016"

// ProjectRef references a project by key
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name ("Task", "Story", "Bug")
type IssueTypeRef struct {
	Name string `json:"name"`
}

// IssueFields is the fields block of a create-issue payload. StoryPoints
// is emitted under the story-points custom field only when set.
type IssueFields struct {
	Project     ProjectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	IssueType   IssueTypeRef `json:"issuetype"`
	StoryPoints *float64     `json:"-"`
}

// MarshalJSON emits the story-points custom field only when present
func (f IssueFields) MarshalJSON() ([]byte, error) {
	type fields struct {
		Project     ProjectRef   `json:"project"`
		Summary     string       `json:"summary"`
		Description string       `json:"description"`
		IssueType   IssueTypeRef `json:"issuetype"`
	}
	base := fields{
		Project:     f.Project,
		Summary:     f.Summary,
		Description: f.Description,
		IssueType:   f.IssueType,
	}
	if f.StoryPoints == nil {
		return json.Marshal(base)
	}

	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	points, err := json.Marshal(*f.StoryPoints)
	if err != nil {
		return nil, err
	}
	m[StoryPointsField] = points
	return json.Marshal(m)
}

// createIssueRequest is the create-issue payload envelope
type createIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// CreatedIssue is the vendor response for a successful creation
type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// createMetaResponse is the /issue/createmeta response envelope
type createMetaResponse struct {
	Projects []ProjectMeta `json:"projects"`
}

// ProjectMeta describes one project from the create metadata, with the
// issue types available for new issues
type ProjectMeta struct {
	ID         string          `json:"id"`
	Key        string          `json:"key"`
	Name       string          `json:"name"`
	IssueTypes []IssueTypeMeta `json:"issuetypes"`
}

// IssueTypeMeta describes one issue type available in a project
type IssueTypeMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtask     bool   `json:"subtask"`
}

// errorResponse is the vendor error body shape
type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
	Message       string            `json:"message"`
}
