package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/jwpark-dev/tripnote/pkg/errors"
)

var (
	// ErrDuplicateEmail indicates registration with an email that is taken.
	ErrDuplicateEmail = apperrors.New("AUTH_DUPLICATE_EMAIL", "Email is already registered", http.StatusBadRequest)
	// ErrUnknownAccount indicates no account exists for the given email.
	ErrUnknownAccount = apperrors.New("AUTH_UNKNOWN_ACCOUNT", "No account exists for this email", http.StatusBadRequest)
	// ErrNotActivated indicates the account has not completed email verification.
	ErrNotActivated = apperrors.New("AUTH_NOT_ACTIVATED", "Account has not been activated", http.StatusBadRequest)
	// ErrBadCredentials indicates the password did not match.
	ErrBadCredentials = apperrors.New("AUTH_BAD_CREDENTIALS", "Invalid email or password", http.StatusBadRequest)
	// ErrInvalidCode indicates the verification code did not match.
	ErrInvalidCode = apperrors.New("AUTH_INVALID_CODE", "Verification code is invalid", http.StatusBadRequest)
	// ErrCodeExpired indicates the verification code outlived its window.
	ErrCodeExpired = apperrors.New("AUTH_CODE_EXPIRED", "Verification code has expired", http.StatusBadRequest)

	// ErrChapterNotFound indicates the chapter does not exist or belongs to someone else.
	ErrChapterNotFound = apperrors.New("CHAPTER_NOT_FOUND", "Travel chapter not found", http.StatusNotFound)
	// ErrChapterClosed indicates a write against a chapter already closed.
	ErrChapterClosed = apperrors.New("CHAPTER_CLOSED", "Travel chapter is closed", http.StatusBadRequest)
	// ErrEntryNotFound indicates the diary entry does not exist or belongs to someone else.
	ErrEntryNotFound = apperrors.New("ENTRY_NOT_FOUND", "Diary entry not found", http.StatusNotFound)
)

// isUniqueViolation reports whether err is a unique-constraint violation on
// any of the supported database drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}

	// sqlite surfaces constraint failures as plain errors.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
