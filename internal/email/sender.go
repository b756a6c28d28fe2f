// Package email delivers transactional mail for roster accounts.
package email

import "context"

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}
