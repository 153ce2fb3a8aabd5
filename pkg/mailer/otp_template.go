package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

const otpSubject = "Your verification code"

var otpHTML = htmpl.Must(htmpl.New("verify_email_otp").Parse(`<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <p>Hi {{.Name}},</p>
    <p>Use this code to verify your email address:</p>
    <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
    <p>The code expires in {{.ExpiresInMinutes}} minutes. If you did not create
    an account, you can safely ignore this email.</p>
  </body>
</html>`))

type otpEmailData struct {
	Name             string
	Code             string
	ExpiresInMinutes int
}

// RenderVerifyOTP renders the verification email for an OTP job's data map.
func RenderVerifyOTP(data map[string]any) (subject, text, html string, err error) {
	d := otpEmailData{
		Name:             stringField(data, "Name"),
		Code:             stringField(data, "Code"),
		ExpiresInMinutes: intField(data, "ExpiresInMinutes"),
	}
	if d.Code == "" {
		return "", "", "", fmt.Errorf("otp email data missing Code")
	}
	if d.Name == "" {
		d.Name = "there"
	}
	var buf bytes.Buffer
	if err := otpHTML.Execute(&buf, d); err != nil {
		return "", "", "", err
	}
	text = fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n",
		d.Name, d.Code, d.ExpiresInMinutes)
	return otpSubject, text, buf.String(), nil
}

func stringField(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64: // JSON numbers decode as float64
		return int(v)
	default:
		return 0
	}
}
