package services

import (
	"fmt"

	"github.com/vnkhanh/kids-story-backend/models"
)

// EndMarker is shown on the last slide
const EndMarker = "The End"

// Presenter pages through a fixed slide sequence one slide at a time.
// It clamps at both ends instead of wrapping.
type Presenter struct {
	slides []models.Slide
	index  int
}

func NewPresenter(slides []models.Slide) *Presenter {
	return &Presenter{slides: slides}
}

func (p *Presenter) Len() int {
	return len(p.slides)
}

func (p *Presenter) Index() int {
	return p.index
}

// Seek moves to index, clamped into the sequence
func (p *Presenter) Seek(index int) {
	p.index = p.clamp(index)
}

func (p *Presenter) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.index++
	return true
}

func (p *Presenter) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.index--
	return true
}

func (p *Presenter) HasPrev() bool {
	return p.index > 0
}

func (p *Presenter) HasNext() bool {
	return p.index < len(p.slides)-1
}

func (p *Presenter) Current() (models.Slide, bool) {
	if len(p.slides) == 0 {
		return models.Slide{}, false
	}
	return p.slides[p.index], true
}

// Frame is what the viewer renders for the current index.
type Frame struct {
	Index     int           `json:"index"`
	Position  int           `json:"position"`
	Total     int           `json:"total"`
	Indicator string        `json:"indicator"`
	Slide     *models.Slide `json:"slide"`
	HasPrev   bool          `json:"has_prev"`
	HasNext   bool          `json:"has_next"`
	End       bool          `json:"end"`
	EndMarker string        `json:"end_marker,omitempty"`
}

func (p *Presenter) Frame() Frame {
	total := len(p.slides)
	frame := Frame{
		Index:   p.index,
		Total:   total,
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
	}

	if slide, ok := p.Current(); ok {
		frame.Position = p.index + 1
		frame.Slide = &slide
		frame.End = !frame.HasNext
	}
	frame.Indicator = fmt.Sprintf("%d / %d", frame.Position, total)

	if frame.End {
		frame.EndMarker = EndMarker
	}
	return frame
}

func (p *Presenter) clamp(index int) int {
	if index < 0 || len(p.slides) == 0 {
		return 0
	}
	if index >= len(p.slides) {
		return len(p.slides) - 1
	}
	return index
}
