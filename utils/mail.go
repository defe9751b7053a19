package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/models"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
)

//go:embed templates/*.html
var templateFS embed.FS

var receiptTemplate = template.Must(template.ParseFS(templateFS, "templates/payment_receipt.html"))

type SMTPConfig struct {
	From     string
	Password string
	Host     string
	Address  string
}

type EmailData struct {
	OrderID       string
	Total         string
	ReceiptNumber string
	PaidAt        string
	Items         []models.OrderItem
	Name          string
	Message       string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer emails a payment receipt once an order is paid.
type Mailer struct {
	cfg  SMTPConfig
	send SendFunc
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func receiptData(order models.Order) EmailData {
	data := EmailData{
		OrderID: order.OrderID,
		Total:   order.TotalAmount.StringFixed(2),
		Items:   order.Items,
		Name:    order.Personalization.Name,
		Message: order.Personalization.Message,
	}
	if order.MpesaReceiptNumber != nil {
		data.ReceiptNumber = *order.MpesaReceiptNumber
	}
	if order.MpesaTransactionDate != nil {
		data.PaidAt = order.MpesaTransactionDate.In(mpesa.Nairobi).Format(time.DateTime)
	}
	return data
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, tmpl *template.Template, data EmailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Address, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// OrderPaid satisfies callback.PaymentNotifier.
func (m *Mailer) OrderPaid(ctx context.Context, order models.Order) error {
	return m.SendEmail(order.UserEmail, "Payment received for your Hotel Kitchen order", receiptTemplate, receiptData(order))
}
