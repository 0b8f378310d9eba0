// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/poopooshop/shop-backend/internal/order"
)

const billTemplate = `<html>
<body>
	<p>Hi {{.Name}},</p>
	<p>Your bill has arrived!</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr>
			<th>Item</th>
			<th>Description</th>
			<th>Price</th>
		</tr>
		{{range .Lines}}
		<tr>
			<td>{{.Item}}</td>
			<td>You have ordered {{.Quantity}} of this product at a price of {{.UnitPrice}}</td>
			<td>{{.Total}}</td>
		</tr>
		{{end}}
		<tr>
			<td colspan="2"><b>Total</b></td>
			<td><b>{{.Total}}</b></td>
		</tr>
	</table>
	<p>Thank you for ordering from us!</p>
</body>
</html>`

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer renders order bills and delivers them over SMTP.
// It satisfies order.Notifier.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	tmpl   *template.Template
}

func New(cfg Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		tmpl:   template.Must(template.New("bill").Parse(billTemplate)),
	}
}

func (m *Mailer) SendOrderConfirmation(bill order.Bill) error {
	body, err := m.render(bill)
	if err != nil {
		return errors.Wrap(err, "render bill")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", bill.To)
	msg.SetHeader("Subject", fmt.Sprintf("Order confirmation #%d", bill.OrderID))
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "send mail")
	}
	return nil
}

func (m *Mailer) render(bill order.Bill) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, bill); err != nil {
		return "", err
	}
	return buf.String(), nil
}
