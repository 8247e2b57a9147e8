package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/kids-story-backend/models"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
)

type memTaxonomy struct {
	categories []models.Category
	themes     []models.Theme
	listErr    error
}

func (m *memTaxonomy) ListCategories(context.Context) ([]models.Category, error) {
	return m.categories, m.listErr
}

func (m *memTaxonomy) ListThemes(context.Context) ([]models.Theme, error) {
	return m.themes, m.listErr
}

func (m *memTaxonomy) EnsureCategory(_ context.Context, c *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == c.Name {
			return nil
		}
	}
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memTaxonomy) EnsureTheme(_ context.Context, th *models.Theme) error {
	for _, existing := range m.themes {
		if existing.Name == th.Name {
			return nil
		}
	}
	m.themes = append(m.themes, *th)
	return nil
}

func TestTaxonomy_SeedIsIdempotent(t *testing.T) {
	store := &memTaxonomy{}
	svc := NewTaxonomyService(store, logger.NewNop())

	require.NoError(t, svc.Seed(context.Background()))
	require.NoError(t, svc.Seed(context.Background()))

	require.Len(t, store.categories, 3)
	require.Len(t, store.themes, 3)
	assert.Equal(t, "mahabharata", store.categories[0].Slug)
	assert.Equal(t, 2, store.categories[1].SortOrder)
	assert.Equal(t, "devotion", store.themes[2].Slug)
}

func TestTaxonomy_FilterOptions(t *testing.T) {
	store := &memTaxonomy{}
	svc := NewTaxonomyService(store, logger.NewNop())
	require.NoError(t, svc.Seed(context.Background()))

	opts := svc.FilterOptions(context.Background())

	assert.Equal(t, []string{"All", "Mahabharata", "Ramayana", "Folktale"}, opts.Categories)
	assert.Equal(t, []string{"All", "Leadership", "Wisdom", "Devotion"}, opts.Themes)
}

func TestTaxonomy_FilterOptionsFallBack(t *testing.T) {
	svc := NewTaxonomyService(&memTaxonomy{listErr: errors.New("down")}, logger.NewNop())

	opts := svc.FilterOptions(context.Background())

	assert.Equal(t, append([]string{FilterAll}, DefaultCategories...), opts.Categories)
	assert.Equal(t, append([]string{FilterAll}, DefaultThemes...), opts.Themes)
}
