package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwpark-dev/tripnote/internal/models"
	"github.com/jwpark-dev/tripnote/pkg/crypto"
	"github.com/jwpark-dev/tripnote/pkg/logger"
)

// ErrFederatedEmailRequired is returned when the provider asserts an identity
// without an email address. Accounts are keyed by email, so the login cannot
// be linked to anything.
var ErrFederatedEmailRequired = errors.New("federated login: provider returned no email")

// Bridge links a verified federated profile to a local account and finishes
// the login by minting a bearer token and the frontend hand-off URL.
type Bridge struct {
	db           *gorm.DB
	tokens       *TokenService
	frontendBase string
}

// NewBridge constructs a Bridge. frontendBase is the origin the browser is
// sent back to after a successful federated login.
func NewBridge(db *gorm.DB, tokens *TokenService, frontendBase string) *Bridge {
	return &Bridge{
		db:           db,
		tokens:       tokens,
		frontendBase: strings.TrimRight(frontendBase, "/"),
	}
}

// Resolve finds or provisions the account behind a federated profile. Matching
// is by email: an existing account is reused regardless of how it was created,
// a missing one is provisioned already activated with an unusable password.
// Emails are stored lowercase; providers may assert arbitrary casing.
func (b *Bridge) Resolve(ctx context.Context, profile *Profile) (models.Account, error) {
	if profile == nil {
		return models.Account{}, ErrFederatedEmailRequired
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return models.Account{}, ErrFederatedEmailRequired
	}

	var account models.Account
	err := b.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	switch {
	case err == nil:
		return b.refresh(ctx, account, profile)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return b.provision(ctx, email, profile)
	default:
		return models.Account{}, fmt.Errorf("federated login: lookup account: %w", err)
	}
}

// Finish resolves the account and returns the redirect URL carrying a freshly
// issued bearer token.
func (b *Bridge) Finish(ctx context.Context, profile *Profile) (string, error) {
	account, err := b.Resolve(ctx, profile)
	if err != nil {
		return "", err
	}

	token, err := b.tokens.Issue(account.ID)
	if err != nil {
		return "", fmt.Errorf("federated login: issue token: %w", err)
	}

	return b.RedirectURL(token), nil
}

// RedirectURL builds the frontend hand-off URL for a freshly issued token.
func (b *Bridge) RedirectURL(token string) string {
	return b.frontendBase + "/oauth-success?token=" + url.QueryEscape(token)
}

func (b *Bridge) refresh(ctx context.Context, account models.Account, profile *Profile) (models.Account, error) {
	if profile.Name == "" || profile.Name == account.Name {
		return account, nil
	}

	account.Name = profile.Name
	if err := b.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("name", profile.Name).Error; err != nil {
		return models.Account{}, fmt.Errorf("federated login: update account: %w", err)
	}
	return account, nil
}

func (b *Bridge) provision(ctx context.Context, email string, profile *Profile) (models.Account, error) {
	// The password column is not nullable, so federated accounts store a
	// random value that is not a bcrypt hash and can never verify.
	placeholder, err := crypto.GenerateToken(32)
	if err != nil {
		return models.Account{}, fmt.Errorf("federated login: generate placeholder password: %w", err)
	}

	account := models.Account{
		Email:     email,
		Name:      profile.Name,
		Password:  placeholder,
		Activated: true,
		Origin:    models.OriginGoogle,
	}
	if account.Name == "" {
		account.Name = email
	}

	if err := b.db.WithContext(ctx).Create(&account).Error; err != nil {
		return models.Account{}, fmt.Errorf("federated login: create account: %w", err)
	}

	logger.WithModule("auth").Info("provisioned federated account",
		zap.String("email", email),
	)
	return account, nil
}
