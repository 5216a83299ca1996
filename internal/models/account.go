package models

// Account origins. Federated accounts carry an unusable random password and
// can only sign in through their provider.
const (
	OriginLocal  = "local"
	OriginGoogle = "google"
)

// Account is a diary owner, created either by local registration or by the
// first federated login.
type Account struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Password string `gorm:"not null" json:"-"`

	Activated bool   `gorm:"default:false" json:"activated"`
	Origin    string `gorm:"default:local" json:"origin"`

	ReminderSetting bool `gorm:"default:false" json:"reminder_setting"`

	Chapters []TravelChapter `gorm:"foreignKey:AccountID" json:"-"`
}

// Activate returns a copy of the account in the activated state. Activation is
// monotonic: there is deliberately no inverse transition.
func (a Account) Activate() Account {
	a.Activated = true
	return a
}
