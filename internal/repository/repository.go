package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/bank-insights/internal/models"
)

// ErrUserNotFound is returned when no user matches a lookup
var ErrUserNotFound = errors.New("user not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO bank.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM bank.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO bank.accounts (user_id, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, account.UserID, account.Balance, account.Currency).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// ListAccountOwners retrieves every account together with its owner's contact details
func (r *Repository) ListAccountOwners(ctx context.Context) ([]models.AccountOwner, error) {
	query := `
		SELECT a.id, a.user_id, a.balance, a.currency, a.created_at, a.updated_at, u.username, u.email
		FROM bank.accounts a
		JOIN bank.users u ON u.id = a.user_id
		ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var owners []models.AccountOwner
	for rows.Next() {
		var o models.AccountOwner
		if err := rows.Scan(&o.ID, &o.UserID, &o.Balance, &o.Currency, &o.CreatedAt, &o.UpdatedAt, &o.Username, &o.Email); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return owners, nil
}

// ListTransactionsByUser retrieves up to limit of the user's most recent transactions
func (r *Repository) ListTransactionsByUser(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `
		SELECT transaction_id, transaction_amount, "timestamp", created_at,
		       COALESCE(channel, ''), COALESCE(merchant_name, ''), COALESCE(transaction_type, '')
		FROM bank.transactions
		WHERE user_id = $1
		ORDER BY COALESCE("timestamp", created_at) DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0, limit)
	for rows.Next() {
		var (
			t         models.Transaction
			id        sql.NullString
			timestamp sql.NullTime
			createdAt time.Time
		)
		if err := rows.Scan(&id, &t.Amount, &timestamp, &createdAt, &t.Channel, &t.MerchantName, &t.TransactionType); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if id.Valid {
			t.ID = models.NewTransactionID(id.String)
		}
		if timestamp.Valid {
			t.Timestamp = timestamp.Time.Format(time.RFC3339Nano)
		}
		t.CreatedAt = createdAt.Format(time.RFC3339Nano)
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
