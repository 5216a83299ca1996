package models

import "time"

// DiaryEntry is a single day's written record inside a travel chapter.
type DiaryEntry struct {
	BaseModel

	ChapterID string `gorm:"type:uuid;not null;index" json:"chapter_id"`
	AccountID string `gorm:"type:uuid;not null;index" json:"account_id"`

	EntryDate time.Time `gorm:"not null" json:"entry_date"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
}
