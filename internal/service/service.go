package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/bank-insights/internal/analytics"
	"github.com/Dan9191/bank-insights/internal/config"
	"github.com/Dan9191/bank-insights/internal/metrics"
	"github.com/Dan9191/bank-insights/internal/middleware"
	"github.com/Dan9191/bank-insights/internal/models"
	"github.com/Dan9191/bank-insights/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserIDMissing is returned when the context carries no authenticated user
	ErrUserIDMissing = errors.New("user ID not found in context")
	// ErrInvalidInput is returned for requests missing required fields
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoTransactions is returned when a categorization batch is empty
	ErrNoTransactions = errors.New(analytics.MsgNoTransactions)
)

const tokenTTL = 24 * time.Hour

// Store is the persistence the service depends on
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	ListTransactionsByUser(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
}

// Service handles business logic
type Service struct {
	store   Store
	log     *logrus.Logger
	config  *config.Config
	engine  *analytics.Engine
	metrics metrics.Recorder
}

// Option customizes a Service
type Option func(*Service)

// WithClock makes the analytics engine read time from now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.engine = analytics.NewEngineWithClock(now)
	}
}

// WithMetrics records analytics runs with rec
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = rec
	}
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		store:   store,
		log:     log,
		config:  cfg,
		engine:  analytics.NewEngine(),
		metrics: metrics.NoOpRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateAccount creates a new account for the authenticated user
func (s *Service) CreateAccount(ctx context.Context, currency string) (*models.Account, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserIDMissing
	}
	if currency == "" {
		currency = "RUB"
	}

	account := &models.Account{
		UserID:   userID,
		Balance:  0.0,
		Currency: strings.ToUpper(currency),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account created for user %d: %s", userID, account.Currency)
	return account, nil
}
