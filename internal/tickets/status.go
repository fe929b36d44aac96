package tickets

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusUsed      Status = "USED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
	StatusExpired   Status = "EXPIRED"
)

// IsValid checks if the ticket status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusCancelled, StatusRefunded, StatusExpired:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// PaymentStatus is the state of the payment behind a ticket
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)
