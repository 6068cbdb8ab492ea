package ticket

// PublishStatus tags the outcome of one create-issue attempt
type PublishStatus string

const (
	PublishStatusCreated PublishStatus = "created"
	PublishStatusFailed  PublishStatus = "failed"
)

// PublishResult reports the outcome for a single submitted draft. On
// success ID and Key carry the vendor-assigned issue identifiers; on
// failure Error carries a human-readable reason.
type PublishResult struct {
	ID       string        `json:"id,omitempty"`
	Key      string        `json:"key,omitempty"`
	Title    string        `json:"title"`
	Status   PublishStatus `json:"status"`
	Priority Priority      `json:"priority,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// PublishReport aggregates per-ticket outcomes in the caller's input order
type PublishReport struct {
	Results []PublishResult
}

// AllCreated reports whether every submitted draft was created
func (r *PublishReport) AllCreated() bool {
	for _, res := range r.Results {
		if res.Status != PublishStatusCreated {
			return false
		}
	}
	return true
}

// FailedCount returns the number of failed entries
func (r *PublishReport) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == PublishStatusFailed {
			n++
		}
	}
	return n
}
