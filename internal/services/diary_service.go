package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jwpark-dev/tripnote/internal/models"
	apperrors "github.com/jwpark-dev/tripnote/pkg/errors"
)

// CreateEntryInput describes the fields accepted when writing a diary entry.
type CreateEntryInput struct {
	EntryDate time.Time
	Title     string
	Body      string
}

// UpdateEntryInput enumerates mutable entry attributes.
type UpdateEntryInput struct {
	EntryDate *time.Time
	Title     *string
	Body      *string
}

// DiaryService manages diary entries inside a chapter. Writes are rejected
// once the chapter has been closed.
type DiaryService struct {
	db       *gorm.DB
	chapters *ChapterService
}

// NewDiaryService constructs a DiaryService instance.
func NewDiaryService(db *gorm.DB, chapters *ChapterService) (*DiaryService, error) {
	if db == nil {
		return nil, errors.New("diary service: db is required")
	}
	if chapters == nil {
		return nil, errors.New("diary service: chapter service is required")
	}
	return &DiaryService{db: db, chapters: chapters}, nil
}

// Create appends a new entry to an open chapter.
func (s *DiaryService) Create(ctx context.Context, accountID, chapterID string, input CreateEntryInput) (*models.DiaryEntry, error) {
	chapter, err := s.chapters.Get(ctx, accountID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Status == models.ChapterStatusClosed {
		return nil, ErrChapterClosed
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("Entry title is required")
	}
	if input.EntryDate.IsZero() {
		return nil, apperrors.NewBadRequest("Entry date is required")
	}

	entry := models.DiaryEntry{
		ChapterID: chapter.ID,
		AccountID: accountID,
		EntryDate: input.EntryDate,
		Title:     title,
		Body:      input.Body,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("diary service: create: %w", err)
	}
	return &entry, nil
}

// List returns the chapter's entries in diary order.
func (s *DiaryService) List(ctx context.Context, accountID, chapterID string) ([]models.DiaryEntry, error) {
	if _, err := s.chapters.Get(ctx, accountID, chapterID); err != nil {
		return nil, err
	}

	var entries []models.DiaryEntry
	if err := s.db.WithContext(ctx).
		Where("chapter_id = ? AND account_id = ?", chapterID, accountID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("diary service: list: %w", err)
	}
	return entries, nil
}

// Get returns one entry scoped to the owning account.
func (s *DiaryService) Get(ctx context.Context, accountID, entryID string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", entryID, accountID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("diary service: get: %w", err)
	}
	return &entry, nil
}

// Update applies partial changes to an entry in an open chapter.
func (s *DiaryService) Update(ctx context.Context, accountID, entryID string, input UpdateEntryInput) (*models.DiaryEntry, error) {
	entry, err := s.Get(ctx, accountID, entryID)
	if err != nil {
		return nil, err
	}

	chapter, err := s.chapters.Get(ctx, accountID, entry.ChapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Status == models.ChapterStatusClosed {
		return nil, ErrChapterClosed
	}

	updates := map[string]any{}
	if input.EntryDate != nil {
		if input.EntryDate.IsZero() {
			return nil, apperrors.NewBadRequest("Entry date is required")
		}
		updates["entry_date"] = *input.EntryDate
		entry.EntryDate = *input.EntryDate
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("Entry title is required")
		}
		updates["title"] = title
		entry.Title = title
	}
	if input.Body != nil {
		updates["body"] = *input.Body
		entry.Body = *input.Body
	}
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.DiaryEntry{}).
		Where("id = ?", entry.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("diary service: update: %w", err)
	}
	return entry, nil
}

// Delete removes an entry. Deletion stays allowed after the chapter closes.
func (s *DiaryService) Delete(ctx context.Context, accountID, entryID string) error {
	entry, err := s.Get(ctx, accountID, entryID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.DiaryEntry{}, "id = ?", entry.ID).Error; err != nil {
		return fmt.Errorf("diary service: delete: %w", err)
	}
	return nil
}
