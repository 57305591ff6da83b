package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/metrics"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/delivery/storage"
)

// Attachment is a document to deliver with the email. Content is uploaded
// to object storage and linked from the message body rather than attached
// inline.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is an outbound email request. Empty Subject, Text, and HTML fall
// back to the configured defaults.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Result reports the delivery outcome.
type Result struct {
	OK        bool   `json:"ok"`
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// Sender delivers submission notifications.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

// sesAPI is the slice of the SES client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends mail through SES. Document attachments are first uploaded
// to object storage; the public links are appended to the message body.
type SESSender struct {
	client   sesAPI
	uploader storage.Uploader
	cfg      config.EmailConfig
	logger   logger.Logger
}

// NewSESSender builds a sender from the ambient AWS credentials.
func NewSESSender(ctx context.Context, cfg config.EmailConfig, uploader storage.Uploader, log logger.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &SESSender{
		client:   ses.NewFromConfig(awsCfg),
		uploader: uploader,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// Send validates the addresses, uploads any attachments, and dispatches the
// email.
func (s *SESSender) Send(ctx context.Context, msg Message) (*Result, error) {
	if !isValidEmail(msg.To) {
		return nil, errors.NewEmailInvalidError(fmt.Sprintf("invalid 'to' email address: %s", msg.To))
	}
	if !isValidEmail(s.cfg.FromEmail) {
		return nil, errors.NewEmailInvalidError(fmt.Sprintf("invalid 'from' email address: %s", s.cfg.FromEmail))
	}

	subject := msg.Subject
	if subject == "" {
		subject = s.cfg.Subject
	}
	text := msg.Text
	if text == "" {
		text = s.cfg.Text
	}
	html := msg.HTML
	if html == "" {
		html = s.cfg.HTML
	}

	for _, att := range msg.Attachments {
		uploaded, err := s.uploader.Upload(ctx, att.Filename, att.Content, "application/pdf")
		if err != nil {
			metrics.DeliveriesTotal.WithLabelValues("email", "error").Inc()
			return nil, err
		}
		text += fmt.Sprintf("\n\n%s: %s", att.Filename, uploaded.DownloadURL)
		html += fmt.Sprintf(`<p><a href="%s">%s</a> (%d KB)</p>`,
			uploaded.DownloadURL, att.Filename, len(att.Content)/1024)
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.cfg.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				Html: &sestypes.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues("email", "error").Inc()
		return nil, errors.NewEmailSendFailedError(err)
	}

	metrics.DeliveriesTotal.WithLabelValues("email", "success").Inc()
	s.logger.Info("Email sent", map[string]interface{}{
		"to":          msg.To,
		"subject":     subject,
		"messageId":   aws.ToString(out.MessageId),
		"attachments": len(msg.Attachments),
		"sentAt":      time.Now().UTC(),
	})
	return &Result{
		OK:        true,
		MessageID: aws.ToString(out.MessageId),
		Status:    "sent",
	}, nil
}

// isValidEmail applies the same loose shape check used on form input: one @,
// non-empty local and domain parts, a dot in the domain.
func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}
