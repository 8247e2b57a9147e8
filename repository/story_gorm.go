package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/kids-story-backend/models"
)

type StoryGorm struct {
	db *gorm.DB
}

func NewStoryGorm(db *gorm.DB) *StoryGorm {
	return &StoryGorm{db: db}
}

var _ StoryStore = (*StoryGorm)(nil)

func (s *StoryGorm) ListStories(ctx context.Context, filter StoryFilter) ([]models.Story, error) {
	query := s.db.WithContext(ctx).Model(&models.Story{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Theme != "" {
		query = query.Where("theme = ?", filter.Theme)
	}

	var stories []models.Story
	if err := query.Order("created_at DESC").Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *StoryGorm) FindStoriesBySlug(ctx context.Context, slug string, limit int) ([]models.Story, error) {
	var stories []models.Story
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *StoryGorm) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (s *StoryGorm) CreateStory(ctx context.Context, story *models.Story) error {
	return s.db.WithContext(ctx).Create(story).Error
}

func (s *StoryGorm) UpdateStory(ctx context.Context, story *models.Story) error {
	// map form so empty strings are written too
	return s.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("id = ?", story.ID).
		Updates(map[string]interface{}{
			"title":           story.Title,
			"description":     story.Description,
			"slug":            story.Slug,
			"cover_image_url": story.CoverImageURL,
			"cover_audio_url": story.CoverAudioURL,
			"category":        story.Category,
			"theme":           story.Theme,
		}).Error
}

func (s *StoryGorm) DeleteStory(ctx context.Context, id uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&models.Story{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (s *StoryGorm) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.Story{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (s *StoryGorm) ListSlides(ctx context.Context, storyID uuid.UUID) ([]models.Slide, error) {
	var slides []models.Slide
	err := s.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&slides).Error
	if err != nil {
		return nil, err
	}
	return slides, nil
}

func (s *StoryGorm) CreateSlide(ctx context.Context, slide *models.Slide) error {
	return s.db.WithContext(ctx).Create(slide).Error
}

func (s *StoryGorm) DeleteSlidesByStory(ctx context.Context, storyID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Where("story_id = ?", storyID).Delete(&models.Slide{})
	return result.RowsAffected, result.Error
}
