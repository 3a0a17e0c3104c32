package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"papers-store-backend/internal/features/account/models"
	"papers-store-backend/internal/features/account/repository"
	catalogmodels "papers-store-backend/internal/features/catalog/models"
)

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) repository.AccountRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetOrCreate(ctx context.Context, telegramID int64) (*models.Account, error) {
	query := `
		INSERT INTO users (telegram_id, stars)
		VALUES ($1, 0)
		ON CONFLICT (telegram_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, telegramID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByID(ctx, telegramID)
}

func (r *postgresRepository) GetByID(ctx context.Context, telegramID int64) (*models.Account, error) {
	query := `
		SELECT telegram_id, stars, created_at
		FROM users
		WHERE telegram_id = $1
	`

	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &account, nil
}

func (r *postgresRepository) Credit(ctx context.Context, telegramID, amount int64) (*models.Account, error) {
	query := `
		INSERT INTO users (telegram_id, stars)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET stars = users.stars + EXCLUDED.stars
		RETURNING telegram_id, stars, created_at
	`

	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, telegramID, amount); err != nil {
		return nil, fmt.Errorf("failed to credit user: %w", err)
	}

	return &account, nil
}

func (r *postgresRepository) ApplyPayment(ctx context.Context, chargeID string, telegramID, amount int64) (*models.Account, bool, error) {
	query := `
		WITH charge AS (
			INSERT INTO star_payments (charge_id, telegram_id, amount)
			VALUES ($1, $2, $3)
			ON CONFLICT (charge_id) DO NOTHING
			RETURNING telegram_id, amount
		)
		INSERT INTO users (telegram_id, stars)
		SELECT telegram_id, amount FROM charge
		ON CONFLICT (telegram_id) DO UPDATE SET stars = users.stars + EXCLUDED.stars
		RETURNING telegram_id, stars, created_at
	`

	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, chargeID, telegramID, amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to apply payment: %w", err)
	}

	return &account, true, nil
}

func (r *postgresRepository) PaperExists(ctx context.Context, paperID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM question_papers WHERE id = $1)`, paperID)
	if err != nil {
		return false, fmt.Errorf("failed to check paper: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) HasPurchased(ctx context.Context, telegramID, paperID int64) (bool, error) {
	return hasPurchased(ctx, r.db, telegramID, paperID)
}

func (r *postgresRepository) PurchasedPapers(ctx context.Context, telegramID int64) ([]catalogmodels.Paper, error) {
	query := `
		SELECT p.id, p.department, p.semester, p.year, p.paper_name, p.price
		FROM user_papers up
		JOIN question_papers p ON p.id = up.paper_id
		WHERE up.telegram_id = $1
		ORDER BY up.id
	`

	papers := []catalogmodels.Paper{}
	if err := r.db.SelectContext(ctx, &papers, query, telegramID); err != nil {
		return nil, fmt.Errorf("failed to list purchased papers: %w", err)
	}

	return papers, nil
}

func (r *postgresRepository) RecentPurchases(ctx context.Context, telegramID int64, limit int) ([]models.HistoryItem, error) {
	query := `
		SELECT p.id AS paper_id, p.paper_name, p.department, p.semester, p.year, up.purchased_at
		FROM user_papers up
		JOIN question_papers p ON p.id = up.paper_id
		WHERE up.telegram_id = $1
		ORDER BY up.id DESC
		LIMIT $2
	`

	items := []models.HistoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, telegramID, limit); err != nil {
		return nil, fmt.Errorf("failed to list purchase history: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) InPurchaseTx(ctx context.Context, fn func(tx repository.PurchaseTx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&purchaseTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type purchaseTx struct {
	tx *sqlx.Tx
}

func (t *purchaseTx) LockAccount(ctx context.Context, telegramID int64) (*models.Account, error) {
	query := `
		SELECT telegram_id, stars, created_at
		FROM users
		WHERE telegram_id = $1
		FOR UPDATE
	`

	var account models.Account
	if err := t.tx.GetContext(ctx, &account, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	return &account, nil
}

func (t *purchaseTx) GetPaper(ctx context.Context, paperID int64) (*catalogmodels.Paper, error) {
	query := `
		SELECT id, department, semester, year, paper_name, price
		FROM question_papers
		WHERE id = $1
	`

	var paper catalogmodels.Paper
	if err := t.tx.GetContext(ctx, &paper, query, paperID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}

	return &paper, nil
}

func (t *purchaseTx) HasPurchased(ctx context.Context, telegramID, paperID int64) (bool, error) {
	return hasPurchased(ctx, t.tx, telegramID, paperID)
}

func (t *purchaseTx) Debit(ctx context.Context, telegramID, amount int64) (bool, error) {
	query := `
		UPDATE users
		SET stars = stars - $2
		WHERE telegram_id = $1 AND stars >= $2
	`

	result, err := t.tx.ExecContext(ctx, query, telegramID, amount)
	if err != nil {
		return false, fmt.Errorf("failed to debit user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func (t *purchaseTx) AddPurchase(ctx context.Context, telegramID, paperID, pricePaid int64) error {
	query := `
		INSERT INTO user_papers (telegram_id, paper_id, price_paid, purchased_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := t.tx.ExecContext(ctx, query, telegramID, paperID, pricePaid); err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	return nil
}

func hasPurchased(ctx context.Context, q sqlx.QueryerContext, telegramID, paperID int64) (bool, error) {
	var owned bool
	query := `SELECT EXISTS (SELECT 1 FROM user_papers WHERE telegram_id = $1 AND paper_id = $2)`
	if err := sqlx.GetContext(ctx, q, &owned, query, telegramID, paperID); err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return owned, nil
}
