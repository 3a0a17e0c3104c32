package service

import (
	"context"
	"errors"

	"papers-store-backend/internal/common/logger"
	"papers-store-backend/internal/features/account/models"
	"papers-store-backend/internal/features/account/repository"
	"papers-store-backend/internal/utils/telegram"
)

// HistoryLimit caps the purchase history response.
const HistoryLimit = 10

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidCharge = errors.New("charge id is required")
)

type AccountService interface {
	GetOrCreateUser(ctx context.Context, identity telegram.Identity) (*models.UserResponse, error)
	Purchase(ctx context.Context, telegramID, paperID int64) (*models.PurchaseResult, error)
	PurchaseHistory(ctx context.Context, telegramID int64) ([]models.HistoryItem, error)
	Profile(ctx context.Context, telegramID int64) (*models.Profile, error)
	CheckAccess(ctx context.Context, telegramID, paperID int64) (models.AccessOutcome, error)
	Credit(ctx context.Context, telegramID, amount int64) (*models.Account, error)
	ApplyPayment(ctx context.Context, chargeID string, telegramID, amount int64) (*models.Account, bool, error)
}

type accountService struct {
	repo repository.AccountRepository
}

func NewAccountService(repo repository.AccountRepository) AccountService {
	return &accountService{
		repo: repo,
	}
}

// GetOrCreateUser returns the balance with the display name claimed by the
// current init data; the name is never persisted.
func (s *accountService) GetOrCreateUser(ctx context.Context, identity telegram.Identity) (*models.UserResponse, error) {
	account, err := s.repo.GetOrCreate(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return &models.UserResponse{
		ID:        account.TelegramID,
		FirstName: identity.FirstName,
		Stars:     account.Stars,
	}, nil
}

// Purchase buys a paper with stars. The balance check, debit and ownership
// record happen in one transaction holding the user's row, so concurrent
// purchases by the same user cannot spend the same stars twice.
func (s *accountService) Purchase(ctx context.Context, telegramID, paperID int64) (*models.PurchaseResult, error) {
	var result models.PurchaseResult

	err := s.repo.InPurchaseTx(ctx, func(tx repository.PurchaseTx) error {
		account, err := tx.LockAccount(ctx, telegramID)
		if errors.Is(err, repository.ErrUserNotFound) {
			result = models.PurchaseResult{Outcome: models.PurchaseNotFound}
			return nil
		}
		if err != nil {
			return err
		}

		paper, err := tx.GetPaper(ctx, paperID)
		if errors.Is(err, repository.ErrPaperNotFound) {
			result = models.PurchaseResult{Outcome: models.PurchaseNotFound, Balance: account.Stars}
			return nil
		}
		if err != nil {
			return err
		}

		owned, err := tx.HasPurchased(ctx, telegramID, paperID)
		if err != nil {
			return err
		}
		if owned {
			result = models.PurchaseResult{Outcome: models.PurchaseAlreadyOwned, Balance: account.Stars}
			return nil
		}

		paymentRequired := models.PurchaseResult{
			Outcome:       models.PurchasePaymentRequired,
			RequiredStars: paper.Price - account.Stars,
			Balance:       account.Stars,
		}
		if account.Stars < paper.Price {
			result = paymentRequired
			return nil
		}

		debited, err := tx.Debit(ctx, telegramID, paper.Price)
		if err != nil {
			return err
		}
		if !debited {
			result = paymentRequired
			return nil
		}

		if err := tx.AddPurchase(ctx, telegramID, paperID, paper.Price); err != nil {
			return err
		}

		result = models.PurchaseResult{Outcome: models.PurchaseCompleted, Balance: account.Stars - paper.Price}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("user_id", telegramID).
		Int64("paper_id", paperID).
		Str("outcome", result.Outcome.String()).
		Int64("balance", result.Balance).
		Msg("Purchase processed")

	return &result, nil
}

// PurchaseHistory returns the most recent purchases first. Unknown users get
// an empty history.
func (s *accountService) PurchaseHistory(ctx context.Context, telegramID int64) ([]models.HistoryItem, error) {
	items, err := s.repo.RecentPurchases(ctx, telegramID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	if len(items) > HistoryLimit {
		items = items[:HistoryLimit]
	}
	return items, nil
}

func (s *accountService) Profile(ctx context.Context, telegramID int64) (*models.Profile, error) {
	if _, err := s.repo.GetByID(ctx, telegramID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	papers, err := s.repo.PurchasedPapers(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		TotalPapers:     len(papers),
		DepartmentStats: make(map[string]int),
	}
	for _, p := range papers {
		profile.TotalSpent += p.Price
		profile.DepartmentStats[p.Department]++
	}

	return profile, nil
}

func (s *accountService) CheckAccess(ctx context.Context, telegramID, paperID int64) (models.AccessOutcome, error) {
	if _, err := s.repo.GetByID(ctx, telegramID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.AccessNotFound, nil
		}
		return models.AccessNotFound, err
	}

	exists, err := s.repo.PaperExists(ctx, paperID)
	if err != nil {
		return models.AccessNotFound, err
	}
	if !exists {
		return models.AccessNotFound, nil
	}

	owned, err := s.repo.HasPurchased(ctx, telegramID, paperID)
	if err != nil {
		return models.AccessNotFound, err
	}
	if !owned {
		return models.AccessNotPurchased, nil
	}

	return models.AccessGranted, nil
}

func (s *accountService) Credit(ctx context.Context, telegramID, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.repo.Credit(ctx, telegramID, amount)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("user_id", telegramID).
		Int64("amount", amount).
		Int64("balance", account.Stars).
		Msg("Stars credited")

	return account, nil
}

// ApplyPayment credits a settled top-up once per charge id. The second
// return value is false when the charge had already been applied.
func (s *accountService) ApplyPayment(ctx context.Context, chargeID string, telegramID, amount int64) (*models.Account, bool, error) {
	if chargeID == "" {
		return nil, false, ErrInvalidCharge
	}
	if amount <= 0 {
		return nil, false, ErrInvalidAmount
	}

	account, applied, err := s.repo.ApplyPayment(ctx, chargeID, telegramID, amount)
	if err != nil {
		return nil, false, err
	}
	if !applied {
		logger.Info().Str("charge_id", chargeID).Int64("user_id", telegramID).Msg("Payment already applied")
		return nil, false, nil
	}

	logger.Info().
		Int64("user_id", telegramID).
		Int64("amount", amount).
		Int64("balance", account.Stars).
		Str("charge_id", chargeID).
		Msg("Payment applied")

	return account, true, nil
}
