package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papers-store-backend/internal/features/account/models"
	"papers-store-backend/internal/features/account/repository"
)

func newMock(t *testing.T) (*postgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &postgresRepository{db: sqlx.NewDb(db, "sqlmock")}, mock
}

var userColumns = []string{"telegram_id", "stars", "created_at"}

func TestGetOrCreate(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (telegram_id, stars)")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT telegram_id, stars, created_at")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, 0, now))

	account, err := repo.GetOrCreate(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), account.TelegramID)
	assert.Equal(t, int64(0), account.Stars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT telegram_id, stars, created_at")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCredit(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (telegram_id) DO UPDATE SET stars = users.stars + EXCLUDED.stars")).
		WithArgs(int64(42), int64(10)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, 15, time.Now()))

	account, err := repo.Credit(context.Background(), 42, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(15), account.Stars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPayment(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO star_payments (charge_id, telegram_id, amount)")).
		WithArgs("ch_1", int64(42), int64(50)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, 55, time.Now()))

	account, applied, err := repo.ApplyPayment(context.Background(), "ch_1", 42, 50)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, int64(55), account.Stars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPaymentAlreadyRecorded(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (charge_id) DO NOTHING")).
		WithArgs("ch_1", int64(42), int64(50)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	account, applied, err := repo.ApplyPayment(context.Background(), "ch_1", 42, 50)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentPurchases(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY up.id DESC")).
		WithArgs(int64(42), 10).
		WillReturnRows(sqlmock.NewRows([]string{"paper_id", "paper_name", "department", "semester", "year", "purchased_at"}).
			AddRow(2, "Networks", "CSE", "5", "2023", at).
			AddRow(1, "Algorithms", "CSE", "3", "2022", at.Add(-time.Hour)))

	items, err := repo.RecentPurchases(context.Background(), 42, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.HistoryItem{
		PaperID: 2, PaperName: "Networks", Department: "CSE", Semester: "5", Year: "2023", PurchaseDate: at,
	}, items[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTxCommitsSuccessfulPurchase(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(42, 10, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM question_papers")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "department", "semester", "year", "paper_name", "price"}).
			AddRow(1, "CSE", "3", "2022", "Algorithms", 10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM user_papers")).
		WithArgs(int64(42), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(int64(42), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_papers")).
		WithArgs(int64(42), int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.InPurchaseTx(context.Background(), func(tx repository.PurchaseTx) error {
		ctx := context.Background()
		account, err := tx.LockAccount(ctx, 42)
		require.NoError(t, err)
		paper, err := tx.GetPaper(ctx, 1)
		require.NoError(t, err)
		owned, err := tx.HasPurchased(ctx, 42, 1)
		require.NoError(t, err)
		assert.False(t, owned)

		ok, err := tx.Debit(ctx, account.TelegramID, paper.Price)
		require.NoError(t, err)
		assert.True(t, ok)
		return tx.AddPurchase(ctx, account.TelegramID, paper.ID, paper.Price)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTxDebitReportsInsufficientBalance(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(int64(42), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.InPurchaseTx(context.Background(), func(tx repository.PurchaseTx) error {
		ok, err := tx.Debit(context.Background(), 42, 10)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseTxRollsBackOnError(t *testing.T) {
	repo, mock := newMock(t)
	insertErr := errors.New("duplicate key value violates unique constraint")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_papers")).WillReturnError(insertErr)
	mock.ExpectRollback()

	err := repo.InPurchaseTx(context.Background(), func(tx repository.PurchaseTx) error {
		return tx.AddPurchase(context.Background(), 42, 1, 10)
	})
	assert.ErrorIs(t, err, insertErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockAccountAndGetPaperNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery(regexp.QuoteMeta("FROM question_papers")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "department", "semester", "year", "paper_name", "price"}))
	mock.ExpectCommit()

	err := repo.InPurchaseTx(context.Background(), func(tx repository.PurchaseTx) error {
		_, err := tx.LockAccount(context.Background(), 1)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
		_, err = tx.GetPaper(context.Background(), 1)
		assert.ErrorIs(t, err, repository.ErrPaperNotFound)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
