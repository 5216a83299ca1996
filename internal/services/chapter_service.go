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

// CreateChapterInput describes the fields accepted when opening a chapter.
type CreateChapterInput struct {
	Title         string
	Country       string
	CoverImageURL string
	StartDate     *time.Time
	EndDate       *time.Time
}

// UpdateChapterInput enumerates mutable chapter attributes.
type UpdateChapterInput struct {
	Title         *string
	Country       *string
	CoverImageURL *string
	StartDate     *time.Time
	EndDate       *time.Time
}

// ChapterService manages travel chapters. Every operation is scoped to the
// owning account; a chapter belonging to someone else behaves as missing.
type ChapterService struct {
	db *gorm.DB
}

// NewChapterService constructs a ChapterService instance.
func NewChapterService(db *gorm.DB) (*ChapterService, error) {
	if db == nil {
		return nil, errors.New("chapter service: db is required")
	}
	return &ChapterService{db: db}, nil
}

// Create opens a new chapter for the account.
func (s *ChapterService) Create(ctx context.Context, accountID string, input CreateChapterInput) (*models.TravelChapter, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("Chapter title is required")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, apperrors.NewBadRequest("Chapter end date precedes its start date")
	}

	chapter := models.TravelChapter{
		AccountID:     accountID,
		Title:         title,
		Country:       strings.TrimSpace(input.Country),
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Status:        models.ChapterStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(&chapter).Error; err != nil {
		return nil, fmt.Errorf("chapter service: create: %w", err)
	}
	return &chapter, nil
}

// List returns the account's chapters, newest first.
func (s *ChapterService) List(ctx context.Context, accountID string) ([]models.TravelChapter, error) {
	var chapters []models.TravelChapter
	if err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&chapters).Error; err != nil {
		return nil, fmt.Errorf("chapter service: list: %w", err)
	}
	return chapters, nil
}

// Get returns one chapter with its entries preloaded.
func (s *ChapterService) Get(ctx context.Context, accountID, chapterID string) (*models.TravelChapter, error) {
	var chapter models.TravelChapter
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC")
		}).
		Where("id = ? AND account_id = ?", chapterID, accountID).
		First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("chapter service: get: %w", err)
	}
	return &chapter, nil
}

// Update applies partial changes to an open chapter.
func (s *ChapterService) Update(ctx context.Context, accountID, chapterID string, input UpdateChapterInput) (*models.TravelChapter, error) {
	chapter, err := s.Get(ctx, accountID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Status == models.ChapterStatusClosed {
		return nil, ErrChapterClosed
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("Chapter title is required")
		}
		updates["title"] = title
		chapter.Title = title
	}
	if input.Country != nil {
		updates["country"] = strings.TrimSpace(*input.Country)
		chapter.Country = strings.TrimSpace(*input.Country)
	}
	if input.CoverImageURL != nil {
		updates["cover_image_url"] = strings.TrimSpace(*input.CoverImageURL)
		chapter.CoverImageURL = strings.TrimSpace(*input.CoverImageURL)
	}
	if input.StartDate != nil {
		updates["start_date"] = input.StartDate
		chapter.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = input.EndDate
		chapter.EndDate = input.EndDate
	}
	if chapter.StartDate != nil && chapter.EndDate != nil && chapter.EndDate.Before(*chapter.StartDate) {
		return nil, apperrors.NewBadRequest("Chapter end date precedes its start date")
	}

	if len(updates) == 0 {
		return chapter, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.TravelChapter{}).
		Where("id = ?", chapter.ID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("chapter service: update: %w", err)
	}
	return chapter, nil
}

// Close marks a chapter finished. Closing is idempotent.
func (s *ChapterService) Close(ctx context.Context, accountID, chapterID string) (*models.TravelChapter, error) {
	chapter, err := s.Get(ctx, accountID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.Status == models.ChapterStatusClosed {
		return chapter, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.TravelChapter{}).
		Where("id = ?", chapter.ID).
		Update("status", models.ChapterStatusClosed).Error; err != nil {
		return nil, fmt.Errorf("chapter service: close: %w", err)
	}
	chapter.Status = models.ChapterStatusClosed
	return chapter, nil
}

// Delete removes a chapter and its entries.
func (s *ChapterService) Delete(ctx context.Context, accountID, chapterID string) error {
	chapter, err := s.Get(ctx, accountID, chapterID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", chapter.ID).Delete(&models.DiaryEntry{}).Error; err != nil {
			return fmt.Errorf("chapter service: delete entries: %w", err)
		}
		if err := tx.Delete(&models.TravelChapter{}, "id = ?", chapter.ID).Error; err != nil {
			return fmt.Errorf("chapter service: delete: %w", err)
		}
		return nil
	})
}
