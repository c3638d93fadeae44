package notify

import (
	"fmt"

	"github.com/phrazzld/taskr/internal/events"
)

// Notification kinds, also used as metric labels.
const (
	KindWelcome = "welcome"
	KindGoodbye = "goodbye"
)

// Message is a plain-text notification to one recipient.
type Message struct {
	Kind    string
	To      string
	Name    string
	Subject string
	Body    string
}

// Compose builds the message for an account event. The second return value
// is false for events that carry no notification.
func Compose(event *events.AccountEvent) (Message, bool) {
	switch event.Type {
	case events.AccountRegistered:
		return Message{
			Kind:    KindWelcome,
			To:      event.Email,
			Name:    event.Name,
			Subject: "Thanks for joining in!",
			Body:    fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", event.Name),
		}, true
	case events.AccountDeleted:
		return Message{
			Kind:    KindGoodbye,
			To:      event.Email,
			Name:    event.Name,
			Subject: "Sorry to see you go!",
			Body:    fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", event.Name),
		}, true
	default:
		return Message{}, false
	}
}
