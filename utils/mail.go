package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/shopspring/decimal"
)

type OrderLine struct {
	Name     string
	Quantity int
	Total    string
}

type OrderEmailData struct {
	Name      string
	Reference string
	Lines     []OrderLine
	Total     string
	LogoURL   string
}

func SendEmail(emailTo string, emailSubject string, data any, templatePath string) error {

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	err = smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// OrderMailer sends order confirmations over SMTP.
type OrderMailer struct {
	TemplatePath string
	LogoURL      string
}

// SMTPConfigured reports whether the SMTP settings needed by SendEmail are present.
func SMTPConfigured() bool {
	return os.Getenv("FROM_EMAIL") != "" && os.Getenv("SMTP_ADDRESS") != ""
}

func BuildOrderEmail(customer models.Customer, orders []models.Order, logoURL string) OrderEmailData {
	data := OrderEmailData{Name: customer.Name, LogoURL: logoURL}
	total := decimal.Zero
	for _, o := range orders {
		data.Reference = o.Reference
		name := o.ProductID
		if o.Product != nil {
			name = o.Product.Name
		}
		total = total.Add(o.TotalAmount)
		data.Lines = append(data.Lines, OrderLine{Name: name, Quantity: o.Quantity, Total: "R$ " + o.TotalAmount.StringFixed(2)})
	}
	data.Total = "R$ " + total.StringFixed(2)
	return data
}

func (m *OrderMailer) OrderApproved(customer models.Customer, orders []models.Order) error {
	data := BuildOrderEmail(customer, orders, m.LogoURL)
	return SendEmail(customer.Email, "Your Kikomiilano order #"+data.Reference, data, m.TemplatePath)
}
