package models

import (
	"time"

	"github.com/google/uuid"
)

// Category and Theme are the filter options offered on the browsing page.
// Stories reference them by name, not by id.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex" json:"slug"`
	SortOrder int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Theme struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex" json:"slug"`
	SortOrder int       `gorm:"column:sort_order;default:1" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
