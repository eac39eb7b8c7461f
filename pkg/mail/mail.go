package mail

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// Message is a single outbound email.
type Message struct {
	ToName      string
	ToAddress   string
	Subject     string
	TextContent string
	HTMLContent string
}

// SendGrid delivers messages through the SendGrid v3 API.
type SendGrid struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     zerolog.Logger
	send       func(req sendgridRequest) (int, string, error)
}

type sendgridRequest struct {
	ctx  context.Context
	body []byte
}

// NewSendGrid constructs a SendGrid mailer.
func NewSendGrid(key, appName, fromAddress string, logger zerolog.Logger) *SendGrid {
	mailer := &SendGrid{
		key:        key,
		from:       sgmail.NewEmail(appName, fromAddress),
		subjPrefix: "[" + appName + "] ",
		logger:     logger.With().Str("component", "sendgrid_mailer").Logger(),
	}
	mailer.send = mailer.post
	return mailer
}

// Send delivers the message and fails on any non-2xx response.
func (m *SendGrid) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToAddress) == "" {
		return fmt.Errorf("recipient address is required")
	}

	status, body, err := m.send(sendgridRequest{ctx: ctx, body: sgmail.GetRequestBody(m.prepare(msg))})
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if status >= http.StatusBadRequest {
		m.logger.Warn().Int("status", status).Str("body", body).Msg("sendgrid rejected message")
		return fmt.Errorf("sendgrid responded with status %d", status)
	}

	m.logger.Debug().Str("to", msg.ToAddress).Msg("email sent")
	return nil
}

func (m *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToAddress))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	return v3
}

func (m *SendGrid) post(req sendgridRequest) (int, string, error) {
	request := sendgrid.GetRequest(m.key, endpoint, host)
	request.Method = http.MethodPost
	request.Body = req.body

	if err := req.ctx.Err(); err != nil {
		return 0, "", err
	}

	response, err := sendgrid.API(request)
	if err != nil {
		return 0, "", err
	}
	return response.StatusCode, response.Body, nil
}

// Log writes messages to the logger instead of delivering them. Used when no SendGrid key
// is configured.
type Log struct {
	logger zerolog.Logger
}

// NewLog constructs a logging mailer.
func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "log_mailer").Logger()}
}

// Send logs the message.
func (l *Log) Send(_ context.Context, msg Message) error {
	l.logger.Info().
		Str("to", msg.ToAddress).
		Str("subject", msg.Subject).
		Str("body", msg.TextContent).
		Msg("email delivery skipped")
	return nil
}
