package models

import (
	"time"

	"github.com/google/uuid"
)

type Story struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Slug          string     `gorm:"size:255;index" json:"slug"` // not unique
	CoverImageURL string     `gorm:"type:text" json:"cover_image_url"`
	CoverAudioURL string     `gorm:"type:text" json:"cover_audio_url"`
	Category      string     `gorm:"size:100;index" json:"category"`
	Theme         string     `gorm:"size:100;index" json:"theme"`
	ViewCount     int        `gorm:"default:0" json:"view_count"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Slides []Slide `gorm:"foreignKey:StoryID" json:"slides,omitempty"`
}

func (Story) TableName() string {
	return "stories"
}
