package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type accountStore interface {
	FindByLogin(ctx context.Context, nameOrEmail string) (*models.Account, error)
	MarkLoggedIn(ctx context.Context, id int64, ts time.Time) error
}

// AuthConfig defines token issuance settings.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AuthService checks credentials and issues bearer tokens.
type AuthService struct {
	accounts  accountStore
	clock     clock.Clock
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts accountStore, clk clock.Clock, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if clk == nil {
		clk = clock.New()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &AuthService{accounts: accounts, clock: clk, validator: validate, logger: logger, config: config}
}

// Login authenticates by name or email. FirstLogin is set when the account
// has never signed in before.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.NameOrEmail = strings.TrimSpace(req.NameOrEmail)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name or email and password are required")
	}

	account, err := s.accounts.FindByLogin(ctx, req.NameOrEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid name, email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid name, email or password")
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	firstLogin := account.LastLogin == nil
	if err := s.accounts.MarkLoggedIn(ctx, account.ID, s.clock.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("user_id", account.ID), zap.Error(err))
	}

	return &models.LoginResponse{Token: token, User: account.ToUser(), FirstLogin: firstLogin}, nil
}

// ValidateToken parses and validates a bearer token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(account *models.Account) (string, error) {
	issuedAt := s.clock.Now().UTC()
	claims := &models.SessionClaims{
		UserID:    account.ID,
		Role:      account.Role,
		ProfileID: account.ProfileID(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(account.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}
