// Package events carries account lifecycle events from the services that
// raise them to the handlers that react, such as the notification
// dispatcher. Emitting never depends on any particular handler being
// registered.
package events
