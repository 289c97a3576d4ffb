package network

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventSwitchboardAdded EventType = "switchboard_added"
	EventTrunkAdded       EventType = "trunk_added"
	EventPhoneAdded       EventType = "phone_added"
	EventCallStarted      EventType = "call_started"
	EventCallEnded        EventType = "call_ended"
	EventNetworkLoaded    EventType = "network_loaded"
	EventNetworkSaved     EventType = "network_saved"
)

// Event represents a change in the network
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
