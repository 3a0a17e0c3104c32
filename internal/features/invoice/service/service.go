package service

import (
	"fmt"
	"net/url"
)

type InvoiceService interface {
	CreateInvoice(userID int64, amount string) string
}

type invoiceService struct {
	botUsername string
}

func NewInvoiceService(botUsername string) InvoiceService {
	return &invoiceService{
		botUsername: botUsername,
	}
}

// CreateInvoice returns a bot deep link whose start payload identifies the
// amount and the buyer. Nothing is recorded; the bot settles the payment and
// credits the balance. An empty amount renders as 0.
func (s *invoiceService) CreateInvoice(userID int64, amount string) string {
	if amount == "" {
		amount = "0"
	}
	return fmt.Sprintf("https://t.me/%s?start=pay_%s_%d", url.PathEscape(s.botUsername), url.QueryEscape(amount), userID)
}
