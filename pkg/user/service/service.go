// Package service implements user registration and custodial wallet binding.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/app/errors"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/custodian"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/user"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/userstore"
)

// tokenTTL is the lifetime of tokens issued at registration.
const tokenTTL = 24 * time.Hour

var (
	ErrUserAlreadyRegistered = errors.New("user already registered")
	ErrUserNotFound          = errors.New("user not found")
	ErrWalletAlreadyBound    = errors.New("wallet already bound")
)

// Store is the narrow data-access interface for the user service.
type Store interface {
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
	BindWallet(ctx context.Context, userID, walletID string) error
}

// WalletProvider creates custodial wallets for users.
type WalletProvider interface {
	CreateWallet(ctx context.Context, label string) (*custodian.Wallet, error)
}

// TokenIssuer signs access tokens for registered users.
type TokenIssuer interface {
	IssueToken(userID string, ttl time.Duration) (string, error)
}

// RegisterResponse is the outcome of a successful registration.
type RegisterResponse struct {
	User  *user.User
	Token string
}

// Service defines the interface for the user business logic
type Service interface {
	Register(ctx context.Context, email string) (*RegisterResponse, error)
	GetUser(ctx context.Context, id string) (*user.User, error)
	BindWallet(ctx context.Context, userID string) (*user.User, error)
}

type userService struct {
	store   Store
	wallets WalletProvider
	tokens  TokenIssuer
	logger  *zap.Logger
}

// NewService creates a new user service
func NewService(store Store, wallets WalletProvider, tokens TokenIssuer, logger *zap.Logger) Service {
	return &userService{
		store:   store,
		wallets: wallets,
		tokens:  tokens,
		logger:  logger,
	}
}

// Register creates a user and issues an access token. Wallets are bound
// separately so a custodian outage never blocks sign-up.
func (s *userService) Register(ctx context.Context, email string) (*RegisterResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.BadRequestError(nil, "valid email is required")
	}

	exists, err := s.store.UserExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, apperrors.ConflictError(ErrUserAlreadyRegistered, "user already registered")
	}

	usr := user.New(uuid.NewString(), email)
	if err := s.store.CreateUser(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	token, err := s.tokens.IssueToken(usr.ID, tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", usr.ID))

	return &RegisterResponse{User: usr, Token: token}, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*user.User, error) {
	usr, err := s.store.GetUser(ctx, userstore.WithID(id))
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(ErrUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return usr, nil
}

// BindWallet creates a custodial wallet for the user and binds it. The
// binding is set-once; a second bind is a conflict even if the first
// wallet was created by a concurrent request.
func (s *userService) BindWallet(ctx context.Context, userID string) (*user.User, error) {
	usr, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.WalletID != "" {
		return nil, apperrors.ConflictError(ErrWalletAlreadyBound, "wallet already bound")
	}

	wallet, err := s.wallets.CreateWallet(ctx, userID)
	if err != nil {
		return nil, apperrors.DependencyError(err, "wallet provider unavailable")
	}

	if err := s.store.BindWallet(ctx, userID, wallet.ID); err != nil {
		if errors.Is(err, userstore.ErrWalletAlreadyBound) {
			return nil, apperrors.ConflictError(ErrWalletAlreadyBound, "wallet already bound")
		}
		if errors.Is(err, userstore.ErrUserNotFound) {
			return nil, apperrors.ResourceNotFoundError(ErrUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to bind wallet: %w", err)
	}

	usr.WalletID = wallet.ID
	s.logger.Info("wallet bound",
		zap.String("user_id", userID),
		zap.String("wallet_id", wallet.ID))

	return usr, nil
}
