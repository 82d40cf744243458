package harvester

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Server != "" && len(c.Recipients) > 0
}

// EmailReport mails the rendered run report to the configured
// recipients. Operators batch runs overnight; this is how they find out
// whether the morning output directory is worth opening.
func EmailReport(cfg SmtpConfig, runId string, summary Summary) error {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("TLV Archive Downloader <%s>", cfg.EmailAddress)
	mail.To = cfg.Recipients
	mail.Subject = fmt.Sprintf("Archive run %s finished", runId)
	mail.Text = []byte(summary.Render())

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.EmailAddress, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		return mail.Send(addr, nil)
	}
	return err
}
