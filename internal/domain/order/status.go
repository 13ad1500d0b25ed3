package order

// Status represents the lifecycle state of an order
type Status string

const (
	StatusProcessing    Status = "PROCESSING"
	StatusDelivered     Status = "DELIVERED"
	StatusCancelled     Status = "CANCELLED"
	StatusReturnPending Status = "RETURN_PENDING"
	StatusReturned      Status = "RETURNED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusProcessing, StatusDelivered, StatusCancelled, StatusReturnPending, StatusReturned:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusProcessing:
		return target == StatusDelivered || target == StatusCancelled
	case StatusDelivered:
		return target == StatusReturnPending
	case StatusReturnPending:
		return target == StatusReturned
	case StatusCancelled, StatusReturned:
		return false
	}
	return false
}
