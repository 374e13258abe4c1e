package services

import (
	"context"
	"fmt"
	"html"

	"github.com/Govind-619/PayGate/config"
	"github.com/Govind-619/PayGate/models"
	"gopkg.in/gomail.v2"
)

// ReceiptNotifier tells a user their payment went through.
type ReceiptNotifier interface {
	SendReceipt(ctx context.Context, user models.User, txn models.Transaction) error
}

// MailDialer is the part of *gomail.Dialer we need.
type MailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails a receipt over SMTP.
type EmailNotifier struct {
	dialer MailDialer
	from   string
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return NewEmailNotifierWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewEmailNotifierWithDialer(dialer MailDialer, from string) *EmailNotifier {
	return &EmailNotifier{dialer: dialer, from: from}
}

func (n *EmailNotifier) SendReceipt(_ context.Context, user models.User, txn models.Transaction) error {
	m := BuildReceiptMessage(n.from, user, txn)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %v", err)
	}
	return nil
}

// BuildReceiptMessage renders the receipt e-mail for txn.
func BuildReceiptMessage(from string, user models.User, txn models.Transaction) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("Payment receipt for %s", txn.OrderID))

	body := fmt.Sprintf(`
		<h2>Payment received</h2>
		<p>Hi %s, we have received your payment.</p>
		<table>
			<tr><td>Order</td><td>%s</td></tr>
			<tr><td>Payment ID</td><td>%s</td></tr>
			<tr><td>Amount</td><td>%s %s</td></tr>
			<tr><td>Description</td><td>%s</td></tr>
		</table>
	`,
		html.EscapeString(user.DisplayName()),
		html.EscapeString(txn.OrderID),
		html.EscapeString(models.StringValue(txn.ProviderPaymentID)),
		FormatAmount(txn.Amount, txn.Currency), html.EscapeString(txn.Currency),
		html.EscapeString(txn.Description),
	)
	m.SetBody("text/html", body)
	return m
}
