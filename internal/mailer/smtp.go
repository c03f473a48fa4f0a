package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// Mailer sends transactional mail. Implementations are best-effort:
// callers log failures and keep going.
type Mailer interface {
	SendPasswordResetEmail(to, token string) error
	SendTicketOpenedEmail(to, title string) error
	SendTicketStatusEmail(to, title, statusName string) error
	SendTicketAssignedEmail(to, title string) error
}

// SMTPMailer delivers mail over SMTP with STARTTLS.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	baseURL string
	dialer  *gomail.Dialer
}

// NewSMTPMailer builds the mailer. When no host is configured Send
// methods fail fast so callers can log and move on.
func NewSMTPMailer(cfg config.SMTPConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		baseURL: baseURL,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) SendPasswordResetEmail(to, token string) error {
	resetURL := fmt.Sprintf("%s/resetar-senha.html?token=%s", m.baseURL, token)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Redefinição de Senha</h2>
			<p>Recebemos uma solicitação para redefinir sua senha. Clique no link abaixo:</p>
			<p><a href="%s">Redefinir Senha</a></p>
			<p>Este link expira em 30 minutos.</p>
			<p>Se você não solicitou a redefinição, ignore este e-mail e sua senha permanecerá inalterada.</p>
		</body>
		</html>
	`, resetURL)
	return m.send(to, "Redefinição de Senha - Suporte TI", body)
}

func (m *SMTPMailer) SendTicketOpenedEmail(to, title string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Chamado Aberto</h2>
			<p>Seu chamado <strong>%s</strong> foi registrado e será atendido em breve.</p>
		</body>
		</html>
	`, title)
	return m.send(to, "Chamado registrado - Suporte TI", body)
}

func (m *SMTPMailer) SendTicketStatusEmail(to, title, statusName string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Atualização de Chamado</h2>
			<p>O chamado <strong>%s</strong> agora está com o status: <strong>%s</strong>.</p>
		</body>
		</html>
	`, title, statusName)
	return m.send(to, "Chamado atualizado - Suporte TI", body)
}

func (m *SMTPMailer) SendTicketAssignedEmail(to, title string) error {
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Chamado Atribuído</h2>
			<p>O chamado <strong>%s</strong> foi atribuído a você.</p>
		</body>
		</html>
	`, title)
	return m.send(to, "Novo chamado atribuído - Suporte TI", body)
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.SenderName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
