// Package notify delivers raw verification and reset tokens to users
// through an out-of-band channel. SMTP is not configured in the observed
// deployment, so the default implementation writes the links to the log.
package notify

import "go.uber.org/zap"

type Notifier interface {
	SendVerificationLink(email, url string)
	SendPasswordResetLink(email, url string)
}

type LogNotifier struct {
	Log *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier { return &LogNotifier{Log: l} }

func (n *LogNotifier) SendVerificationLink(email, url string) {
	n.Log.Info("email verification link generated",
		zap.String("email", email),
		zap.String("url", url),
	)
}

func (n *LogNotifier) SendPasswordResetLink(email, url string) {
	n.Log.Info("password reset link generated",
		zap.String("email", email),
		zap.String("url", url),
	)
}
