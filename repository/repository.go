package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/vnkhanh/kids-story-backend/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrBadQuery = errors.New("bad query")
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// StoryFilter narrows a story listing. Empty fields mean no filter.
type StoryFilter struct {
	Category string
	Theme    string
}

//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock.go -package=mocks

// StoryStore is the tabular store behind stories and their slides
type StoryStore interface {
	// ListStories returns stories newest first
	ListStories(ctx context.Context, filter StoryFilter) ([]models.Story, error)

	// FindStoriesBySlug returns at most limit stories carrying the slug
	FindStoriesBySlug(ctx context.Context, slug string, limit int) ([]models.Story, error)

	GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	CreateStory(ctx context.Context, story *models.Story) error

	// UpdateStory overwrites title, description, slug, cover urls, category and theme
	UpdateStory(ctx context.Context, story *models.Story) error

	DeleteStory(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// ListSlides returns slides ordered by order, then creation time
	ListSlides(ctx context.Context, storyID uuid.UUID) ([]models.Slide, error)
	CreateSlide(ctx context.Context, slide *models.Slide) error
	DeleteSlidesByStory(ctx context.Context, storyID uuid.UUID) (int64, error)
}
