package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/models"
	"github.com/jwpark-dev/tripnote/pkg/crypto"
	"github.com/jwpark-dev/tripnote/pkg/logger"
	"github.com/jwpark-dev/tripnote/pkg/mail"
	"github.com/jwpark-dev/tripnote/pkg/metrics"
)

const (
	// DefaultCodeTTL is how long a verification code stays valid.
	DefaultCodeTTL = 5 * time.Minute
	// codeDigits is the length of the numeric verification code.
	codeDigits = 4
)

// RegisterInput describes the fields accepted when registering an account.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// LoginResult is returned on a successful password login.
type LoginResult struct {
	Token     string
	AccountID string
}

// AuthService owns the registration, activation and password login lifecycle.
type AuthService struct {
	db      *gorm.DB
	tokens  *auth.TokenService
	mailer  mail.Mailer
	codeTTL time.Duration
	now     func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(db *gorm.DB, tokens *auth.TokenService, mailer mail.Mailer, codeTTL time.Duration, now func() time.Time) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("auth service: token service is required")
	}
	if mailer == nil {
		return nil, errors.New("auth service: mailer is required")
	}
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		db:      db,
		tokens:  tokens,
		mailer:  mailer,
		codeTTL: codeTTL,
		now:     now,
	}, nil
}

// Register provisions a deactivated account and emails a verification code.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	email := normalizeEmail(input.Email)

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("auth service: hash password: %w", err)
	}

	account := models.Account{
		Email:    email,
		Name:     strings.TrimSpace(input.Name),
		Password: hash,
		Origin:   models.OriginLocal,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("auth service: create account: %w", err)
	}

	return s.issueCode(ctx, email)
}

// ResendCode issues a fresh verification code for an existing account,
// replacing any previous one.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAccount
		}
		return fmt.Errorf("auth service: lookup account: %w", err)
	}

	return s.issueCode(ctx, email)
}

// VerifyCode consumes a verification code and activates the account. Codes
// are single use: a consumed code is deleted and cannot be replayed.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	var record models.VerificationCode
	if err := s.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.VerificationCodes.WithLabelValues("rejected").Inc()
			return ErrInvalidCode
		}
		return fmt.Errorf("auth service: lookup code: %w", err)
	}

	if record.Code != code || code == "" {
		metrics.VerificationCodes.WithLabelValues("rejected").Inc()
		return ErrInvalidCode
	}

	if record.Expired(s.now()) {
		metrics.VerificationCodes.WithLabelValues("rejected").Inc()
		if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
			return fmt.Errorf("auth service: delete expired code: %w", err)
		}
		return ErrCodeExpired
	}

	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAccount
		}
		return fmt.Errorf("auth service: lookup account: %w", err)
	}

	activated := account.Activate()
	if err := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("activated", activated.Activated).Error; err != nil {
		return fmt.Errorf("auth service: activate account: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&record).Error; err != nil {
		return fmt.Errorf("auth service: consume code: %w", err)
	}

	metrics.VerificationCodes.WithLabelValues("verified").Inc()
	return nil
}

// Login checks the password credential and mints a bearer token. Failures are
// reported in a fixed order: unknown account, not activated, bad password.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)

	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempts.WithLabelValues("failure").Inc()
			return LoginResult{}, ErrUnknownAccount
		}
		return LoginResult{}, fmt.Errorf("auth service: lookup account: %w", err)
	}

	if !account.Activated {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return LoginResult{}, ErrNotActivated
	}

	if !crypto.VerifyPassword(account.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return LoginResult{}, ErrBadCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth service: issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return LoginResult{Token: token, AccountID: account.ID}, nil
}

// issueCode replaces any outstanding code for the email with a fresh one and
// attempts delivery. With SMTP disabled the code is logged instead so local
// environments stay usable.
func (s *AuthService) issueCode(ctx context.Context, email string) error {
	code, err := crypto.GenerateNumericCode(codeDigits)
	if err != nil {
		return fmt.Errorf("auth service: generate code: %w", err)
	}

	record := models.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.codeTTL),
	}
	// Last write wins per email; the upsert keeps replacement atomic even
	// when two issues for the same address race.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return fmt.Errorf("auth service: store code: %w", err)
	}

	metrics.VerificationCodes.WithLabelValues("issued").Inc()

	err = s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: "Your TripNote verification code",
		Body: fmt.Sprintf("Your verification code is %s.\r\nIt expires in %d minutes.\r\n",
			code, int(s.codeTTL.Minutes())),
	})
	if errors.Is(err, mail.ErrSMTPDisabled) {
		logger.WithModule("auth").Info("smtp disabled, verification code not emailed",
			zap.String("email", email),
			zap.String("code", code),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("auth service: send code: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
