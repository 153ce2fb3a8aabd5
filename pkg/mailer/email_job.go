package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template-based jobs carry Template and Data; raw jobs carry Subject plus
// Text and/or HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_email_otp"
	Data     map[string]any `json:"data,omitempty"`
}

// TemplateVerifyOTP is the job template name for the email-verification OTP.
const TemplateVerifyOTP = "verify_email_otp"
