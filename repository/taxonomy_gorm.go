package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/kids-story-backend/models"
)

type TaxonomyStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListThemes(ctx context.Context) ([]models.Theme, error)
	// EnsureCategory inserts the category unless its name already exists
	EnsureCategory(ctx context.Context, category *models.Category) error
	EnsureTheme(ctx context.Context, theme *models.Theme) error
}

type TaxonomyGorm struct {
	db *gorm.DB
}

func NewTaxonomyGorm(db *gorm.DB) *TaxonomyGorm {
	return &TaxonomyGorm{db: db}
}

var _ TaxonomyStore = (*TaxonomyGorm)(nil)

func (t *TaxonomyGorm) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := t.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (t *TaxonomyGorm) ListThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := t.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&themes).Error; err != nil {
		return nil, err
	}
	return themes, nil
}

func (t *TaxonomyGorm) EnsureCategory(ctx context.Context, category *models.Category) error {
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(category).Error
}

func (t *TaxonomyGorm) EnsureTheme(ctx context.Context, theme *models.Theme) error {
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(theme).Error
}
