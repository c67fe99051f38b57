package events

import (
	"time"

	"reqboard/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Element events

// ElementCreated is raised when a requirement, group, or text box is created
type ElementCreated struct {
	BaseEvent
	Target valueobjects.TargetRef `json:"target"`
	Layer  string                 `json:"layer"`
}

// NewElementCreated creates an ElementCreated event
func NewElementCreated(target valueobjects.TargetRef, layer string, timestamp time.Time) ElementCreated {
	return ElementCreated{
		BaseEvent: BaseEvent{
			AggregateID: target.Key(),
			EventType:   "element.created",
			Timestamp:   timestamp,
		},
		Target: target,
		Layer:  layer,
	}
}

// ElementDeleted is raised when an element is removed from the board
type ElementDeleted struct {
	BaseEvent
	Target valueobjects.TargetRef `json:"target"`
}

// NewElementDeleted creates an ElementDeleted event
func NewElementDeleted(target valueobjects.TargetRef, timestamp time.Time) ElementDeleted {
	return ElementDeleted{
		BaseEvent: BaseEvent{
			AggregateID: target.Key(),
			EventType:   "element.deleted",
			Timestamp:   timestamp,
		},
		Target: target,
	}
}

// ElementMoved is raised when an element is translated on the board
type ElementMoved struct {
	BaseEvent
	Target      valueobjects.TargetRef `json:"target"`
	NewPosition valueobjects.Position  `json:"-"`
}

// NewElementMoved creates an ElementMoved event
func NewElementMoved(target valueobjects.TargetRef, newPos valueobjects.Position, timestamp time.Time) ElementMoved {
	return ElementMoved{
		BaseEvent: BaseEvent{
			AggregateID: target.Key(),
			EventType:   "element.moved",
			Timestamp:   timestamp,
		},
		Target:      target,
		NewPosition: newPos,
	}
}

// ElementLayerChanged is raised when an element is reassigned to a layer
type ElementLayerChanged struct {
	BaseEvent
	Target   valueobjects.TargetRef `json:"target"`
	OldLayer string                 `json:"old_layer"`
	NewLayer string                 `json:"new_layer"`
}

// NewElementLayerChanged creates an ElementLayerChanged event
func NewElementLayerChanged(target valueobjects.TargetRef, oldLayer, newLayer string, timestamp time.Time) ElementLayerChanged {
	return ElementLayerChanged{
		BaseEvent: BaseEvent{
			AggregateID: target.Key(),
			EventType:   "element.layer_changed",
			Timestamp:   timestamp,
		},
		Target:   target,
		OldLayer: oldLayer,
		NewLayer: newLayer,
	}
}

// Link events

// ChildLinked is raised when a child requirement is attached to a parent
type ChildLinked struct {
	BaseEvent
	ParentID int `json:"parent_id"`
	ChildID  int `json:"child_id"`
}

// NewChildLinked creates a ChildLinked event
func NewChildLinked(parentID, childID int, timestamp time.Time) ChildLinked {
	return ChildLinked{
		BaseEvent: BaseEvent{
			AggregateID: valueobjects.RequirementTarget(parentID).Key(),
			EventType:   "link.child_linked",
			Timestamp:   timestamp,
		},
		ParentID: parentID,
		ChildID:  childID,
	}
}

// Workflow events

// StatusChanged is raised when a requirement's lifecycle status changes
type StatusChanged struct {
	BaseEvent
	RequirementID int    `json:"requirement_id"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}

// NewStatusChanged creates a StatusChanged event
func NewStatusChanged(requirementID int, oldStatus, newStatus string, timestamp time.Time) StatusChanged {
	return StatusChanged{
		BaseEvent: BaseEvent{
			AggregateID: valueobjects.RequirementTarget(requirementID).Key(),
			EventType:   "workflow.status_changed",
			Timestamp:   timestamp,
		},
		RequirementID: requirementID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
	}
}
