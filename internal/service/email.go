package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"drivoro-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey     string
	fromEmail  string
	fromName   string
	adminEmail string
}

// NewSendGridEmailService returns an EmailService backed by SendGrid.
// adminEmail receives operational alerts such as payment failures.
func NewSendGridEmailService(apiKey, fromEmail, fromName, adminEmail string) EmailService {
	return &sendGridEmailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
	}
}

func (s *sendGridEmailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil)
	return nil
}

func (s *sendGridEmailService) SendBookingConfirmation(ctx context.Context, guestEmail, guestName, carName string, totalCents int64) error {
	subject := fmt.Sprintf("Booking confirmed: %s", carName)
	plainText := fmt.Sprintf("Hi %s, your booking of the %s is confirmed. Total charged: %s.", guestName, carName, formatCents(totalCents))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Booking Confirmed</h2>
				<p>Hi %s,</p>
				<p>Your booking of the <strong>%s</strong> is confirmed.</p>
				<p>Total charged: <strong>%s</strong></p>
			</body>
		</html>
	`, guestName, carName, formatCents(totalCents))
	return s.send(ctx, guestEmail, guestName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendHostApplicationOutcome(ctx context.Context, email, name string, approved bool, note string) error {
	subject := "Your host application has been reviewed"
	outcome := "approved"
	if !approved {
		outcome = "declined"
	}
	plainText := fmt.Sprintf("Hi %s, your application to host on Drivoro has been %s.", name, outcome)
	if note != "" {
		plainText += " Reviewer note: " + note
	}
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Host Application %s</h2>
				<p>Hi %s,</p>
				<p>Your application to host on Drivoro has been <strong>%s</strong>.</p>
				<p>%s</p>
			</body>
		</html>
	`, outcome, name, outcome, note)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendChargeAdjustedNotice(ctx context.Context, guestEmail, guestName string, bookingID int32, beforeCents, afterCents int64, summary string) error {
	subject := fmt.Sprintf("Updated trip charges for booking #%d", bookingID)
	plainText := fmt.Sprintf("Hi %s, the extra charges for booking #%d were reviewed and adjusted from %s to %s. %s",
		guestName, bookingID, formatCents(beforeCents), formatCents(afterCents), summary)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Trip Charges Updated</h2>
				<p>Hi %s,</p>
				<p>The extra charges for booking <strong>#%d</strong> were reviewed and adjusted from %s to <strong>%s</strong>.</p>
				<p>%s</p>
			</body>
		</html>
	`, guestName, bookingID, formatCents(beforeCents), formatCents(afterCents), summary)
	return s.send(ctx, guestEmail, guestName, subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendPaymentFailureAlert(ctx context.Context, subject, message string) error {
	plainText := message
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Payment Failure</h2>
				<p>%s</p>
			</body>
		</html>
	`, message)
	return s.send(ctx, s.adminEmail, "Drivoro Operations", subject, plainText, htmlContent)
}

func (s *sendGridEmailService) SendClaimFiledNotice(ctx context.Context, email, name, reference string) error {
	subject := fmt.Sprintf("Damage claim %s received", reference)
	plainText := fmt.Sprintf("Hi %s, we received your damage claim %s. Our team will review it and follow up.", name, reference)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Claim Received</h2>
				<p>Hi %s,</p>
				<p>We received your damage claim <strong>%s</strong>. Our team will review it and follow up.</p>
			</body>
		</html>
	`, name, reference)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
