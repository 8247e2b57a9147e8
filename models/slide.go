package models

import (
	"time"

	"github.com/google/uuid"
)

// SlidePlaceholderText is stored when a slide is submitted without text
const SlidePlaceholderText = "Slide"

type Slide struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoryID   uuid.UUID `gorm:"type:uuid;not null;index:idx_story_slides_story_order" json:"story_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	ImageURL  *string   `gorm:"type:text" json:"image_url"`
	AudioURL  *string   `gorm:"type:text" json:"audio_url"`
	Order     int       `gorm:"column:sort_order;not null;index:idx_story_slides_story_order" json:"order"` // 1-based
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Slide) TableName() string {
	return "story_slides"
}
