package models

const (
	// NotificationConfirmation and NotificationCancellation select the
	// email template used by the notifier.
	NotificationConfirmation = "confirmation"
	NotificationCancellation = "cancellation"
)

const (
	// DefaultBusinessTimezone is used when the config does not name one.
	DefaultBusinessTimezone = "Asia/Manila"

	// DefaultUpcomingDays is the listing window for upcoming bookings.
	DefaultUpcomingDays = 30

	// DefaultIdempotencyTTL is how long a used idempotency token is
	// remembered, in seconds.
	DefaultIdempotencyTTL = 24 * 60 * 60

	// Reminder offsets in minutes, applied to every created event.
	ReminderEmailDayBefore  = 24 * 60
	ReminderEmailHourBefore = 60
	ReminderPopupBefore     = 30
)
