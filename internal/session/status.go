package session

// Status is the summarization state of a session as seen by readers.
type Status string

const (
	// StatusNotAvailable means no summary was ever produced for the session.
	StatusNotAvailable Status = "not_available"
	// StatusPending means a summarization attempt is in flight.
	StatusPending Status = "pending"
	// StatusCompleted means a summary is persisted and current.
	StatusCompleted Status = "completed"
)

// ResolveStatus maps the persisted status field to a Status. Sessions written
// before status tracking existed have a summary but no status; they read as
// completed. Everything else defaults to not_available.
func ResolveStatus(rawStatus, summary string) Status {
	switch Status(rawStatus) {
	case StatusNotAvailable, StatusPending, StatusCompleted:
		return Status(rawStatus)
	}
	if summary != "" {
		return StatusCompleted
	}
	return StatusNotAvailable
}
