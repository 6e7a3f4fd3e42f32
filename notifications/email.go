package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier sends the customer an order confirmation. Events without a
// customer e-mail address are skipped.
type EmailNotifier struct {
	config SMTPConfig
}

func NewEmailNotifier(config SMTPConfig) *EmailNotifier {
	if config.Port == 0 {
		config.Port = 587
	}
	return &EmailNotifier{config: config}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Thanks for your order, {{.CustomerName}}!</h2>
	<p>Order reference: <strong>{{.Reference}}</strong></p>
	<table style="border-collapse: collapse;">
		{{range .Items}}
		<tr>
			<td style="padding: 4px 8px;">{{.Quantity}}x {{.Name}}{{if .PricingTier}} ({{.PricingTier}}){{end}}</td>
			<td style="padding: 4px 8px;">KSh {{printf "%.2f" .TotalPrice}}</td>
		</tr>
		{{end}}
		<tr><td style="padding: 4px 8px;">Delivery</td><td style="padding: 4px 8px;">KSh {{printf "%.2f" .DeliveryFee}}</td></tr>
		<tr><td style="padding: 4px 8px;"><strong>Total</strong></td><td style="padding: 4px 8px;"><strong>KSh {{printf "%.2f" .Total}}</strong></td></tr>
	</table>
	<p>Delivering to: {{.DeliveryAddress}}</p>
</body>
</html>`))

func RenderConfirmation(event OrderEvent) (string, error) {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, event); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (e *EmailNotifier) NotifyOrder(ctx context.Context, event OrderEvent) error {
	if event.CustomerEmail == "" {
		return nil
	}

	body, err := RenderConfirmation(event)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(e.config.From); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(event.CustomerEmail); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject("PuffVibe order " + event.Reference)
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(e.config.Host,
		mail.WithPort(e.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(e.config.Username),
		mail.WithPassword(e.config.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
