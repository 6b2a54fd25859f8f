package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"studyreview/internal/models"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// EmailConfig holds the SES sender settings
type EmailConfig struct {
	Region     string
	FromEmail  string
	FromName   string
	AppBaseURL string
	Debug      bool
}

// NewEmailService creates a new email service. Without a sender address the
// service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, cfg EmailConfig) (*EmailService, error) {
	if cfg.FromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: cfg.Debug, appBaseURL: cfg.AppBaseURL}, nil
	}

	if cfg.Debug {
		log.Printf("[DEBUG] Initializing email service: region=%s, from=%s <%s>, base=%s",
			cfg.Region, cfg.FromName, cfg.FromEmail, cfg.AppBaseURL)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", cfg.FromEmail, cfg.Region)
	return &EmailService{
		client:     sesv2.NewFromConfig(awsCfg),
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		debug:      cfg.Debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// ReminderItem is one pending review listed in a reminder email
type ReminderItem struct {
	Subject  string
	Topic    string
	Kind     string
	DaysLeft int
}

// SendReminderEmail lists the pending reviews of a user with a link back to
// the application
func (s *EmailService) SendReminderEmail(ctx context.Context, toEmail, toName string, items []ReminderItem) error {
	if s.debug {
		log.Printf("[DEBUG] SendReminderEmail called: to=%s, name=%s, items=%d", toEmail, toName, len(items))
	}

	if !s.enabled {
		log.Printf("Skipping email send (service disabled): reminder to %s", toEmail)
		return nil
	}

	subject, htmlBody, textBody := renderReminder(toName, s.appBaseURL, items)

	if s.debug {
		log.Printf("[DEBUG] Sending reminder email: subject=%s, to=%s", subject, toEmail)
		log.Printf("[DEBUG] HTML body length: %d bytes", len(htmlBody))
		log.Printf("[DEBUG] Text body length: %d bytes", len(textBody))
	}

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func renderReminder(name, baseURL string, items []ReminderItem) (subject, htmlBody, textBody string) {
	subject = "Review reminder - Study Review"

	var list, lines strings.Builder
	for _, it := range items {
		status := models.StatusLabel(it.DaysLeft)
		fmt.Fprintf(&list, "\t\t\t\t<li><strong>%s - %s</strong><br>%s - due %s</li>\n",
			html.EscapeString(it.Subject), html.EscapeString(it.Topic), html.EscapeString(it.Kind), status)
		fmt.Fprintf(&lines, "- %s - %s (%s) - due %s\n", it.Subject, it.Topic, it.Kind, status)
	}

	htmlBody = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.button { display: inline-block; padding: 10px 20px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px; }
	</style>
</head>
<body>
	<div class="container">
		<h2>Hi %s!</h2>
		<p>You have pending reviews:</p>
		<ul>
%s		</ul>
		<p><a href="%s" class="button">Open Study Review</a></p>
		<p>Keep studying!</p>
	</div>
</body>
</html>
`, html.EscapeString(name), list.String(), baseURL)

	textBody = fmt.Sprintf(`Hi %s!

You have pending reviews:
%s
Open Study Review: %s
`, name, lines.String(), baseURL)

	return subject, htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	if s.debug {
		log.Printf("[DEBUG] sendEmail called: to=%s, subject=%s", toEmail, subject)
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] From address: %s", fromAddress)
		log.Printf("[DEBUG] To address: %s", toEmail)
		log.Printf("[DEBUG] Subject: %s", subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if s.debug {
		log.Printf("[DEBUG] Calling SES SendEmail API...")
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug {
		log.Printf("[DEBUG] SES SendEmail succeeded")
		if result.MessageId != nil {
			log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
		}
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
