package models

// NotificationMessage is an ephemeral outbound email. It is built,
// dispatched once, and discarded; there is no retry queue or delivery
// tracking.
type NotificationMessage struct {
	To       string
	Cc       string
	Bcc      string
	Subject  string
	HTMLBody string
	Kind     string // NotificationConfirmation or NotificationCancellation
}
