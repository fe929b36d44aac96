package events

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the event status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBePublished reports whether the backend accepts a publish for this status
func (s Status) CanBePublished() bool {
	return s == StatusDraft
}

// CanBeCancelled reports whether the event is still open to cancellation
func (s Status) CanBeCancelled() bool {
	return s == StatusDraft || s == StatusPublished
}
