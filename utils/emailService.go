package utils

import (
	"fmt"
	"lms/config"
	"log"
	"net/smtp"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password // App password

	header := fmt.Sprintf("Subject: %s\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n", subject)
	message := []byte(header + htmlBody)

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, message); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">%s</h2>
					%s
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Thank you for learning with us.</p>
				</div>
			</body>
		</html>
	`, title, bodyContent)
}

// SendOTPEmail sends a verification OTP to the given address
func SendOTPEmail(otp, email string) error {
	body := fmt.Sprintf(`
		<p style="font-size: 16px; color: #555555; text-align: center;">Your One Time Password (OTP) is:</p>
		<h1 style="text-align: center; color: #4CAF50; font-size: 40px; margin: 20px 0;">%s</h1>
		<p style="font-size: 14px; color: #999999; text-align: center;">Do not share this OTP with anyone.</p>
	`, otp)
	return SendEmail([]string{email}, "OTP Verification Code", getEmailTemplate("OTP Verification", body))
}

func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p style="font-size: 16px; color: #555555;">Hi %s,</p>
		<p style="font-size: 14px; color: #555555;">Welcome aboard! Browse the course catalog and start learning today.</p>
	`, name)
	if err := SendEmail([]string{email}, "Welcome!", getEmailTemplate("Welcome", body)); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", email, err)
	}
}

// SendCertificateIssuedEmail notifies a learner that their certificate is ready
func SendCertificateIssuedEmail(email, name, courseName, viewURL string) {
	body := fmt.Sprintf(`
		<p style="font-size: 16px; color: #555555;">Hi %s,</p>
		<p style="font-size: 14px; color: #555555;">Congratulations on completing <b>%s</b>! Your certificate is ready.</p>
		<p style="text-align: center; margin: 20px 0;"><a href="%s" style="color: #4CAF50;">View your certificate</a></p>
	`, name, courseName, viewURL)
	if err := SendEmail([]string{email}, "Your certificate is ready", getEmailTemplate("Certificate Issued", body)); err != nil {
		log.Printf("Failed to send certificate email to %s: %v", email, err)
	}
}
