package models

import "encoding/json"

// CreateInvoiceRequest accepts any JSON number; it is echoed into the link as sent.
type CreateInvoiceRequest struct {
	Amount json.Number `json:"amount" swaggertype:"number" example:"50"`
}

type CreateInvoiceResponse struct {
	InvoiceURL string `json:"invoiceUrl" example:"https://t.me/your_bot?start=pay_50_123456789"`
}
