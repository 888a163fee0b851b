package mailer

import "context"

// Mailer is the outbound email capability used by dispatch ticks. Swapping
// implementations (SMTP, simulator, a provider SDK) must not touch the
// scheduling logic.
type Mailer interface {
	// Send delivers one email. A non-nil error means the message was not
	// accepted by the transport.
	Send(ctx context.Context, from, to, subject, body string) error
}
