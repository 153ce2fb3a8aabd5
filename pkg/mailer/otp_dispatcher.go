package mailer

import (
	"context"

	"github.com/pennyflow/backend/pkg/helpers"
)

// QueueOTPDispatcher publishes OTP emails as jobs on the email queue. The
// account mutation is already committed by the time SendOTP runs; a publish
// failure is returned so the caller can report it, and a resend remains the
// user's recourse.
type QueueOTPDispatcher struct {
	Pub           *helpers.RabbitPublisher
	ExpiryMinutes int
	Enabled       bool
}

func NewQueueOTPDispatcher(pub *helpers.RabbitPublisher, expiryMinutes int, enabled bool) *QueueOTPDispatcher {
	return &QueueOTPDispatcher{Pub: pub, ExpiryMinutes: expiryMinutes, Enabled: enabled}
}

func (d *QueueOTPDispatcher) SendOTP(ctx context.Context, email, name, code string) error {
	if !d.Enabled || d.Pub == nil {
		return nil
	}
	job := EmailJob{
		To:       email,
		Template: TemplateVerifyOTP,
		Data: map[string]any{
			"Name":             name,
			"Code":             code,
			"ExpiresInMinutes": d.ExpiryMinutes,
		},
	}
	return d.Pub.PublishJSON(ctx, job)
}
