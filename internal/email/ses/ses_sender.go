package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"urbill/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendDocument(ctx context.Context, email port.DocumentEmail) error {
	subject := fmt.Sprintf("%s %s from %s", email.DocumentKind, email.DocumentNumber, email.CompanyName)
	htmlBody := buildDocumentHTML(email)
	textBody := fmt.Sprintf(
		"Hi %s,\n\n%s %s for %s%s is ready. Please respond by %s.\n\nRegards,\n%s",
		email.ToName, email.DocumentKind, email.DocumentNumber,
		email.Currency, email.GrandTotal, email.DueBy, email.CompanyName,
	)
	if email.DownloadURL != "" {
		textBody += "\n\nDownload: " + email.DownloadURL
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{email.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildDocumentHTML(email port.DocumentEmail) string {
	download := ""
	if email.DownloadURL != "" {
		download = fmt.Sprintf(
			`<p><a href="%s" style="color: #4F46E5;">Download %s %s (PDF)</a></p>`,
			email.DownloadURL, email.DocumentKind, email.DocumentNumber,
		)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s %s</h2>
  <p>Hi %s,</p>
  <p>Your %s from %s is ready.</p>
  <table style="margin: 20px 0; border-collapse: collapse;">
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Document</td><td style="padding: 6px 0; font-weight: bold;">%s</td></tr>
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Total</td><td style="padding: 6px 0; font-weight: bold;">%s%s</td></tr>
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Due by</td><td style="padding: 6px 0; font-weight: bold;">%s</td></tr>
  </table>
  %s
  <p>Please reply to this email if you have any questions.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`,
		email.DocumentKind, email.DocumentNumber,
		email.ToName,
		email.DocumentKind, email.CompanyName,
		email.DocumentNumber,
		email.Currency, email.GrandTotal,
		email.DueBy,
		download,
		email.CompanyName,
	)
}
