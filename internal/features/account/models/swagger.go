package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Unauthorized"`
}

// UserResponse is the current user with the display name from init data.
type UserResponse struct {
	ID        int64  `json:"id" example:"123456789"`
	FirstName string `json:"first_name" example:"John"`
	Stars     int64  `json:"stars" example:"25"`
}

type PurchaseRequest struct {
	PaperID int64 `json:"paperId" example:"17"`
}

// PurchaseResponse carries either a soft failure (success=false with a
// message) or a success with the payment requirement.
type PurchaseResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	RequiresPayment *bool  `json:"requiresPayment,omitempty"`
	RequiredStars   int64  `json:"requiredStars,omitempty"`
}

type AccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CreditRequest struct {
	Amount int64 `json:"amount" binding:"required" example:"50"`
}
