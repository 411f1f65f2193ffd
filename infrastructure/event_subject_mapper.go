package infrastructure

import "courtside/events"

// SubjectPrefix is the root of every subject this service publishes to
const SubjectPrefix = "courtside"

// ForwardedEventTypes are the bus event types mirrored to NATS
var ForwardedEventTypes = []events.EventType{
	events.EventTypeBalanceChange,
	events.EventTypeUserJoined,
	events.EventTypeWagerSettled,
}

// SubjectForType returns the NATS subject of an event type
func SubjectForType(eventType events.EventType) string {
	return SubjectPrefix + "." + string(eventType)
}

// MapEventToSubject converts a committed event to its NATS subject
func MapEventToSubject(event events.Event) string {
	return SubjectForType(event.Type())
}

// AllSubjects returns every subject the publisher emits on, in ForwardedEventTypes order
func AllSubjects() []string {
	subjects := make([]string, len(ForwardedEventTypes))
	for i, eventType := range ForwardedEventTypes {
		subjects[i] = SubjectForType(eventType)
	}
	return subjects
}
