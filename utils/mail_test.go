package utils

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/Kariqs/kikomiilano-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderEmail(t *testing.T) {
	customer := models.Customer{Name: "Maria", Email: "maria@example.com"}
	orders := []models.Order{
		{Reference: "KM123456", ProductID: "p1", Product: &models.Product{Name: "Batom Matte"}, Quantity: 2, TotalAmount: decimal.RequireFromString("91.80")},
		{Reference: "KM123456", ProductID: "p2", Quantity: 1, TotalAmount: decimal.RequireFromString("10")},
	}

	data := BuildOrderEmail(customer, orders, "https://cdn.example.com/logo.png")
	assert.Equal(t, "KM123456", data.Reference)
	assert.Equal(t, "R$ 101.80", data.Total)
	require.Len(t, data.Lines, 2)
	assert.Equal(t, "Batom Matte", data.Lines[0].Name)
	assert.Equal(t, "p2", data.Lines[1].Name)
	assert.Equal(t, "R$ 10.00", data.Lines[1].Total)
}

func TestOrderConfirmationTemplateRenders(t *testing.T) {
	tmpl, err := template.ParseFiles("../templates/order_confirmation.html")
	require.NoError(t, err)

	var out bytes.Buffer
	data := OrderEmailData{Name: "Maria", Reference: "KM123456", Total: "R$ 91.80", Lines: []OrderLine{{Name: "Batom", Quantity: 2, Total: "R$ 91.80"}}}
	require.NoError(t, tmpl.Execute(&out, data))
	assert.Contains(t, out.String(), "#KM123456")
	assert.Contains(t, out.String(), "Batom")
}
