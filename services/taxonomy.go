package services

import (
	"context"
	"errors"

	"github.com/gosimple/slug"

	"github.com/vnkhanh/kids-story-backend/models"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
)

var (
	DefaultCategories = []string{"Mahabharata", "Ramayana", "Folktale"}
	DefaultThemes     = []string{"Leadership", "Wisdom", "Devotion"}
)

type FilterOptions struct {
	Categories []string `json:"categories"`
	Themes     []string `json:"themes"`
}

type TaxonomyService struct {
	store repository.TaxonomyStore
	log   logger.Logger
}

func NewTaxonomyService(store repository.TaxonomyStore, log logger.Logger) *TaxonomyService {
	return &TaxonomyService{store: store, log: log.WithComponent("TaxonomyService")}
}

// Seed inserts the default categories and themes that are not there yet
func (t *TaxonomyService) Seed(ctx context.Context) error {
	var errs []error
	for i, name := range DefaultCategories {
		category := &models.Category{Name: name, Slug: slug.Make(name), SortOrder: i + 1}
		if err := t.store.EnsureCategory(ctx, category); err != nil {
			errs = append(errs, err)
		}
	}
	for i, name := range DefaultThemes {
		theme := &models.Theme{Name: name, Slug: slug.Make(name), SortOrder: i + 1}
		if err := t.store.EnsureTheme(ctx, theme); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FilterOptions lists the filter choices, each list led by "All". The
// built-in lists are served when the tables cannot be read.
func (t *TaxonomyService) FilterOptions(ctx context.Context) FilterOptions {
	categories := DefaultCategories
	if rows, err := t.store.ListCategories(ctx); err != nil {
		t.log.Warn("Category list error", "error", err)
	} else if len(rows) > 0 {
		categories = make([]string, 0, len(rows))
		for _, row := range rows {
			categories = append(categories, row.Name)
		}
	}

	themes := DefaultThemes
	if rows, err := t.store.ListThemes(ctx); err != nil {
		t.log.Warn("Theme list error", "error", err)
	} else if len(rows) > 0 {
		themes = make([]string, 0, len(rows))
		for _, row := range rows {
			themes = append(themes, row.Name)
		}
	}

	return FilterOptions{
		Categories: append([]string{FilterAll}, categories...),
		Themes:     append([]string{FilterAll}, themes...),
	}
}
