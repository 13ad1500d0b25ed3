package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps of every stored entity
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh entity with the current UTC time
func NewBaseEntity() BaseEntity {
	return NewBaseEntityAt(time.Now().UTC())
}

// NewBaseEntityAt stamps a fresh entity with now
func NewBaseEntityAt(now time.Time) BaseEntity {
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification at now
func (e *BaseEntity) Touch(now time.Time) {
	e.UpdatedAt = now
}

// AggregateRoot is an entity that records domain events while it changes.
// The application layer publishes them once the transaction commits.
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements AggregateRoot
type BaseAggregateRoot struct {
	BaseEntity
	pending []DomainEvent
}

// AddDomainEvent records event for publication
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the recorded events in the order they happened
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

// ClearDomainEvents forgets the recorded events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}
