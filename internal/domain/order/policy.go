package order

import (
	"time"

	"github.com/google/uuid"
)

// Policy holds the windows that drive automatic status changes
type Policy struct {
	// DeliveryWindow is how long after placement a processing order counts as delivered
	DeliveryWindow time.Duration
	// ReturnWindow is how long after the return request a pending return completes
	ReturnWindow time.Duration
}

// DefaultPolicy returns one day for both windows
func DefaultPolicy() Policy {
	return Policy{
		DeliveryWindow: 24 * time.Hour,
		ReturnWindow:   24 * time.Hour,
	}
}

// DeliveryDue reports whether a processing order has outlived the delivery window
func (p Policy) DeliveryDue(o *Order, now time.Time) bool {
	return o.Status == StatusProcessing && now.Sub(o.CreatedAt) > p.DeliveryWindow
}

// ReturnDue reports whether a pending return has outlived the return window
func (p Policy) ReturnDue(o *Order, now time.Time) bool {
	return o.Status == StatusReturnPending && o.ActionAt != nil && now.Sub(*o.ActionAt) > p.ReturnWindow
}

// DueQuery builds the repository query selecting orders with a transition due at now
func (p Policy) DueQuery(now time.Time, userID *uuid.UUID) DueQuery {
	return DueQuery{
		UserID:        userID,
		CreatedBefore: now.Add(-p.DeliveryWindow),
		ActionBefore:  now.Add(-p.ReturnWindow),
	}
}

// DueQuery selects orders whose automatic transition is due
type DueQuery struct {
	// UserID restricts the query to one user's orders when set
	UserID *uuid.UUID
	// CreatedBefore selects PROCESSING orders created strictly before this instant
	CreatedBefore time.Time
	// ActionBefore selects RETURN_PENDING orders whose action_at is strictly before this instant
	ActionBefore time.Time
	// Limit caps the batch size; zero means no limit
	Limit int
	// SkipLocked skips rows locked by another transaction instead of waiting
	SkipLocked bool
}
