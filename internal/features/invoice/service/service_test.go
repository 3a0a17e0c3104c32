package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateInvoice(t *testing.T) {
	svc := NewInvoiceService("papers_bot")

	assert.Equal(t, "https://t.me/papers_bot?start=pay_50_123456789", svc.CreateInvoice(123456789, "50"))
	assert.Equal(t, "https://t.me/papers_bot?start=pay_0_7", svc.CreateInvoice(7, "0"))
	assert.Equal(t, "https://t.me/papers_bot?start=pay_-5_7", svc.CreateInvoice(7, "-5"))
	assert.Equal(t, "https://t.me/papers_bot?start=pay_12.5_7", svc.CreateInvoice(7, "12.5"))
	assert.Equal(t, "https://t.me/papers_bot?start=pay_0_7", svc.CreateInvoice(7, ""))
}

func TestCreateInvoiceEscapesAmount(t *testing.T) {
	svc := NewInvoiceService("papers_bot")

	assert.Equal(t, "https://t.me/papers_bot?start=pay_1e%2B3_7", svc.CreateInvoice(7, "1e+3"))
}

func TestCreateInvoiceDefaultUsername(t *testing.T) {
	assert.Equal(t, "https://t.me/your_bot?start=pay_10_1", NewInvoiceService("your_bot").CreateInvoice(1, "10"))
}
