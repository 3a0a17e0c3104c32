package models

import "time"

// Account is the persisted part of a user. Display names come from init data
// on each request and are not stored.
type Account struct {
	TelegramID int64     `db:"telegram_id" json:"telegram_id"`
	Stars      int64     `db:"stars" json:"stars"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PurchaseOutcome is the result class of a purchase attempt.
type PurchaseOutcome int

const (
	PurchaseCompleted PurchaseOutcome = iota
	PurchasePaymentRequired
	PurchaseAlreadyOwned
	PurchaseNotFound
)

func (o PurchaseOutcome) String() string {
	switch o {
	case PurchaseCompleted:
		return "completed"
	case PurchasePaymentRequired:
		return "payment_required"
	case PurchaseAlreadyOwned:
		return "already_owned"
	case PurchaseNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type PurchaseResult struct {
	Outcome PurchaseOutcome
	// RequiredStars is the shortfall (price minus balance) for PurchasePaymentRequired.
	RequiredStars int64
	// Balance is the user's balance after the attempt; zero when the user is unknown.
	Balance int64
}

// AccessOutcome is the result class of a paper access check.
type AccessOutcome int

const (
	AccessGranted AccessOutcome = iota
	AccessNotPurchased
	AccessNotFound
)

// HistoryItem is a purchased paper with its catalog metadata.
type HistoryItem struct {
	PaperID      int64     `db:"paper_id" json:"paper_id" example:"17"`
	PaperName    string    `db:"paper_name" json:"paper_name" example:"Data Structures"`
	Department   string    `db:"department" json:"department" example:"CSE"`
	Semester     string    `db:"semester" json:"semester" example:"3"`
	Year         string    `db:"year" json:"year" example:"2023"`
	PurchaseDate time.Time `db:"purchased_at" json:"purchase_date" example:"2024-03-15T14:30:00Z"`
}

// Profile aggregates a user's purchases. TotalSpent uses current catalog prices.
type Profile struct {
	TotalPapers     int            `json:"total_papers" example:"3"`
	TotalSpent      int64          `json:"total_spent" example:"30"`
	DepartmentStats map[string]int `json:"department_stats"`
}
