// Package email delivers transactional mail for the lease lifecycle.
package email

import "context"

// LeaseExpiryReminderData carries the fields rendered into the expiry
// reminder email.
type LeaseExpiryReminderData struct {
	OccupantName string
	PropertyName string
	EndDate      string
	ContactPhone string
	DaysLeft     int
}

// Sender delivers lease lifecycle emails.
type Sender interface {
	SendLeaseExpiryReminder(ctx context.Context, toEmail string, data LeaseExpiryReminderData) error
}
