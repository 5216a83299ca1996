package models

import "time"

// VerificationCode holds the one-time numeric code mailed to a registering
// account. The unique email index keeps at most one live code per address;
// issuing a new code replaces the previous row.
type VerificationCode struct {
	BaseModel

	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Code      string    `gorm:"not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (v VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
