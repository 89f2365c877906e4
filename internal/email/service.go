package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/maraton/maraton-api/internal/logging"
	"github.com/maraton/maraton-api/internal/metrics"
)

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Restablecer contraseña</h2>
    <p>Recibimos una solicitud para restablecer tu contraseña. Haz clic en el botón para elegir una nueva.</p>
    <a href="{{.ResetLink}}" style="display: inline-block; background-color: #E50914; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Restablecer contraseña</a>
    <p>O copia este enlace en tu navegador:</p>
    <p style="word-break: break-all;">{{.ResetLink}}</p>
    <p style="font-size: 12px; color: #666;">El enlace expira en 1 hora. Si no solicitaste el cambio puedes ignorar este correo.</p>
</body>
</html>
`))

type Service struct {
	sender      Sender
	frontendURL string
}

func NewService(sender Sender, frontendURL string) *Service {
	return &Service{sender: sender, frontendURL: frontendURL}
}

// ResetLink is the frontend page that consumes a reset token
func (s *Service) ResetLink(token string) string {
	return fmt.Sprintf("%s/restablecer?token=%s", s.frontendURL, url.QueryEscape(token))
}

// SendPasswordResetEmail sends the reset link to toEmail
func (s *Service) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	logger := logging.GetLoggerFromContext(ctx)
	link := s.ResetLink(token)

	var html bytes.Buffer
	if err := resetTemplate.Execute(&html, struct{ ResetLink string }{link}); err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	err := s.sender.Send(ctx, Message{
		To:      toEmail,
		Subject: "Restablecer contraseña",
		Text:    "Haz clic en este enlace para restablecer tu contraseña: " + link,
		HTML:    html.String(),
	})
	metrics.RecordEmail(s.sender.Name(), err)
	if err != nil {
		logger.Error("failed to send password reset email", "provider", s.sender.Name(), "error", err.Error())
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("password reset email sent", "provider", s.sender.Name())
	return nil
}
