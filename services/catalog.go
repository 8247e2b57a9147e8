package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vnkhanh/kids-story-backend/models"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
)

// FilterAll is the filter option that disables a filter
const FilterAll = "All"

type ReadState string

// StateLoading only describes a read still in flight on the client side.
// Reads here complete before they return, so no ReadResult carries it.
const (
	StateLoading   ReadState = "loading"
	StateNotFound  ReadState = "not_found"
	StateError     ReadState = "error"
	StatePopulated ReadState = "populated"
)

// ReadResult is the outcome of a read path. Value is set only when populated.
type ReadResult[T any] struct {
	State ReadState
	Value T
	Err   error
}

func populated[T any](v T) ReadResult[T] {
	return ReadResult[T]{State: StatePopulated, Value: v}
}

func notFound[T any]() ReadResult[T] {
	return ReadResult[T]{State: StateNotFound}
}

func failed[T any](err error) ReadResult[T] {
	return ReadResult[T]{State: StateError, Err: err}
}

// StoryPage is a story together with its ordered slides
type StoryPage struct {
	Story  models.Story   `json:"story"`
	Slides []models.Slide `json:"slides"`
}

// Catalog serves the public browsing and reading paths.
type Catalog struct {
	store repository.StoryStore
	log   logger.Logger
}

func NewCatalog(store repository.StoryStore, log logger.Logger) *Catalog {
	return &Catalog{store: store, log: log.WithComponent("Catalog")}
}

// NormalizeFilter maps the "All" option and blanks to no filter
func NormalizeFilter(category, theme string) repository.StoryFilter {
	return repository.StoryFilter{
		Category: filterValue(category),
		Theme:    filterValue(theme),
	}
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if v == FilterAll {
		return ""
	}
	return v
}

func (c *Catalog) List(ctx context.Context, category, theme string) ReadResult[[]models.Story] {
	stories, err := c.store.ListStories(ctx, NormalizeFilter(category, theme))
	if err != nil {
		c.log.Error("Story list error", "category", category, "theme", theme, "error", err)
		return failed[[]models.Story](err)
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return populated(stories)
}

// BySlug resolves a slug to exactly one story. Slugs are not unique, so two
// matches are as good as none.
func (c *Catalog) BySlug(ctx context.Context, slug string) ReadResult[models.Story] {
	stories, err := c.store.FindStoriesBySlug(ctx, slug, 2)
	if err != nil {
		c.log.Error("Story lookup error", "slug", slug, "error", err)
		return failed[models.Story](err)
	}
	if len(stories) != 1 {
		if len(stories) > 1 {
			c.log.Warn("Slug matches several stories", "slug", slug)
		}
		return notFound[models.Story]()
	}
	return populated(stories[0])
}

func (c *Catalog) Slides(ctx context.Context, storyID uuid.UUID) ReadResult[[]models.Slide] {
	slides, err := c.store.ListSlides(ctx, storyID)
	if err != nil {
		c.log.Error("Slide list error", "story_id", storyID, "error", err)
		return failed[[]models.Slide](err)
	}
	if slides == nil {
		slides = []models.Slide{}
	}
	return populated(slides)
}

// Page reads a story and its slides. A failed slide read leaves the story
// readable with no slides.
func (c *Catalog) Page(ctx context.Context, slug string) ReadResult[StoryPage] {
	story := c.BySlug(ctx, slug)
	if story.State != StatePopulated {
		return ReadResult[StoryPage]{State: story.State, Err: story.Err}
	}

	page := StoryPage{Story: story.Value, Slides: []models.Slide{}}
	if slides := c.Slides(ctx, story.Value.ID); slides.State == StatePopulated {
		page.Slides = slides.Value
	}
	return populated(page)
}

// RecordView bumps the view counter; failures are only logged
func (c *Catalog) RecordView(ctx context.Context, storyID uuid.UUID) {
	if err := c.store.IncrementViews(ctx, storyID); err != nil {
		c.log.Warn("View count update failed", "story_id", storyID, "error", err)
	}
}
