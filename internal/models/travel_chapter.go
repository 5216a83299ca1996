package models

import "time"

// Travel chapter lifecycle states.
const (
	ChapterStatusOpen   = "open"
	ChapterStatusClosed = "closed"
)

// TravelChapter groups the diary entries of one trip.
type TravelChapter struct {
	BaseModel

	AccountID string `gorm:"type:uuid;not null;index" json:"account_id"`

	Title         string     `gorm:"not null" json:"title"`
	Country       string     `json:"country"`
	CoverImageURL string     `json:"cover_image_url"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Status        string     `gorm:"default:open" json:"status"`

	Entries []DiaryEntry `gorm:"foreignKey:ChapterID" json:"entries,omitempty"`
}
