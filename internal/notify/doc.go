// Package notify delivers welcome and goodbye messages to account holders.
//
// The Dispatcher receives account events, queues them without blocking the
// caller and delivers them from a small worker pool through a Sender, with
// bounded retries. When the queue is full the notification is dropped.
package notify
