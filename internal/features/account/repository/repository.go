package repository

import (
	"context"
	"errors"

	"papers-store-backend/internal/features/account/models"
	catalogmodels "papers-store-backend/internal/features/catalog/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrPaperNotFound = errors.New("paper not found")
)

type AccountRepository interface {
	// GetOrCreate returns the account, creating it with a zero balance if absent.
	GetOrCreate(ctx context.Context, telegramID int64) (*models.Account, error)
	GetByID(ctx context.Context, telegramID int64) (*models.Account, error)
	// Credit adds amount to the balance, creating the account if absent.
	Credit(ctx context.Context, telegramID, amount int64) (*models.Account, error)
	// ApplyPayment records chargeID and credits amount in one statement. A
	// charge that was already recorded credits nothing and reports false.
	ApplyPayment(ctx context.Context, chargeID string, telegramID, amount int64) (*models.Account, bool, error)

	PaperExists(ctx context.Context, paperID int64) (bool, error)
	HasPurchased(ctx context.Context, telegramID, paperID int64) (bool, error)
	// PurchasedPapers returns the user's papers in purchase order with current catalog data.
	PurchasedPapers(ctx context.Context, telegramID int64) ([]catalogmodels.Paper, error)
	// RecentPurchases returns at most limit purchases, most recent first.
	RecentPurchases(ctx context.Context, telegramID int64, limit int) ([]models.HistoryItem, error)

	// InPurchaseTx runs fn in a transaction that is committed when fn returns
	// nil and rolled back otherwise.
	InPurchaseTx(ctx context.Context, fn func(tx PurchaseTx) error) error
}

// PurchaseTx is the set of steps a purchase performs atomically.
type PurchaseTx interface {
	// LockAccount reads the account and holds it against concurrent purchases
	// until the transaction ends.
	LockAccount(ctx context.Context, telegramID int64) (*models.Account, error)
	GetPaper(ctx context.Context, paperID int64) (*catalogmodels.Paper, error)
	HasPurchased(ctx context.Context, telegramID, paperID int64) (bool, error)
	// Debit subtracts amount only if the balance covers it and reports whether it did.
	Debit(ctx context.Context, telegramID, amount int64) (bool, error)
	AddPurchase(ctx context.Context, telegramID, paperID, pricePaid int64) error
}
