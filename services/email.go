package services

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"

	"ostech-hub/config"
	apperrors "ostech-hub/errors"
	"ostech-hub/logger"
	"ostech-hub/utils"
)

// Mailer sends transactional email over SMTP.
type Mailer struct {
	cfg *config.Config
}

// NewMailer creates a Mailer from configuration.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) send(to, subject, body string) error {
	from := m.cfg.EmailFrom
	if from == "" {
		from = m.cfg.SMTPUser
	}
	if from == "" {
		return apperrors.NewConfigError("email sender not configured (set EMAIL_FROM or SMTP_USER)")
	}
	if m.cfg.SMTPUser == "" || m.cfg.SMTPPass == "" {
		return apperrors.NewConfigError("smtp credentials not configured (set SMTP_USER and SMTP_PASS)")
	}

	port := 587
	if v, err := strconv.Atoi(m.cfg.SMTPPort); err == nil {
		port = v
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.SMTPHost, port, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := d.DialAndSend(msg); err != nil {
		return apperrors.E(apperrors.Notification, fmt.Sprintf("failed to send email to %s", to), err)
	}

	logger.Info("Email sent to: %s", to)
	return nil
}

// SendPaymentReceipt emails a card-payment confirmation to the payer.
func (m *Mailer) SendPaymentReceipt(toEmail, cardholderName, courseTitle, transactionID string, amount int64) error {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4CAF50;">Payment Received</h2>
        <p>Dear <strong>%s</strong>,</p>
        <p>Thank you for your purchase. Your payment has been processed successfully.</p>
        <table style="width: 100%%; border-collapse: collapse; margin: 15px 0;">
            <tr><td style="padding: 6px 0;"><strong>Course</strong></td><td>%s</td></tr>
            <tr><td style="padding: 6px 0;"><strong>Amount</strong></td><td>UGX %s</td></tr>
            <tr><td style="padding: 6px 0;"><strong>Reference</strong></td><td>%s</td></tr>
        </table>
        <p>Your course access is now active. Happy learning!</p>
        <p>Best regards,<br/><strong>OSTECH HUB</strong></p>
    </div>
</body>
</html>
	`, cardholderName, courseTitle, utils.FormatAmount(amount), transactionID)

	subject := fmt.Sprintf("Payment Confirmation - %s", courseTitle)
	return m.send(toEmail, subject, body)
}

// SendCertificateReady notifies a learner that their completion certificate
// is available for download.
func (m *Mailer) SendCertificateReady(toEmail, learnerName, courseTitle string, completedAt time.Time) error {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2196F3;">Congratulations, %s!</h2>
        <p>You have completed <strong>%s</strong> on %s.</p>
        <p>Your certificate of completion is ready. Open your dashboard to download it.</p>
        <p>Best regards,<br/><strong>OSTECH HUB</strong></p>
    </div>
</body>
</html>
	`, learnerName, courseTitle, completedAt.Format("January 2, 2006"))

	subject := fmt.Sprintf("Certificate Ready - %s", courseTitle)
	return m.send(toEmail, subject, body)
}
