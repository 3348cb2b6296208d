package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/Dan9191/bank-insights/internal/models"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DB_CONN and migrates it. Tests are skipped without it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dsn := os.Getenv("TEST_DB_CONN")
	if dsn == "" {
		t.Skip("TEST_DB_CONN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db), "migrations are idempotent")

	_, err = db.Exec(`TRUNCATE bank.transactions, bank.accounts, bank.users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func TestRepository_Users(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "ann", Email: "ann@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	found, err := repo.FindUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = repo.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_AccountsAndTransactions(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	account := &models.Account{UserID: user.ID, Balance: 150.5, Currency: "USD"}
	require.NoError(t, repo.CreateAccount(ctx, account))

	owners, err := repo.ListAccountOwners(ctx)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, "bob@example.com", owners[0].Email)
	assert.Equal(t, 150.5, owners[0].Balance)

	_, err = db.Exec(`
		INSERT INTO bank.transactions (transaction_id, user_id, transaction_amount, "timestamp", channel)
		VALUES ('old', $1, 10, '2024-06-01T09:00:00Z', 'Uber'),
		       ('new', $1, 25.75, '2024-06-03T09:00:00Z', NULL),
		       (NULL,  $1, 5, NULL, 'Kroger')`, user.ID)
	require.NoError(t, err)

	txns, err := repo.ListTransactionsByUser(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	// The row without a timestamp falls back to created_at, which is now.
	assert.Nil(t, txns[0].ID)
	assert.Empty(t, txns[0].Timestamp)
	assert.NotEmpty(t, txns[0].CreatedAt)
	assert.Equal(t, "Kroger", txns[0].Channel)

	require.NotNil(t, txns[1].ID)
	assert.Equal(t, "new", txns[1].ID.String())
	assert.Equal(t, 25.75, txns[1].Amount)
	assert.Empty(t, txns[1].Channel)
}
