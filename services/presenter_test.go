package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/kids-story-backend/models"
)

func slides(n int) []models.Slide {
	out := make([]models.Slide, n)
	for i := range out {
		out[i] = models.Slide{Text: string(rune('a' + i)), Order: i + 1}
	}
	return out
}

func TestPresenter_ClampsAtBothEnds(t *testing.T) {
	p := NewPresenter(slides(3))

	assert.False(t, p.HasPrev())
	assert.False(t, p.Prev())
	assert.Equal(t, 0, p.Index())

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.HasNext())
	assert.False(t, p.Next())
	assert.Equal(t, 2, p.Index())

	assert.True(t, p.Prev())
	assert.Equal(t, 1, p.Index())
}

func TestPresenter_FrameIndicator(t *testing.T) {
	p := NewPresenter(slides(4))

	for i := 0; i < 4; i++ {
		p.Seek(i)
		frame := p.Frame()

		assert.Equal(t, i+1, frame.Position)
		assert.Equal(t, 4, frame.Total)
		assert.Equal(t, frame.Position, frame.Index+1)
		assert.Equal(t, i > 0, frame.HasPrev)
		assert.Equal(t, i < 3, frame.HasNext)
		require.NotNil(t, frame.Slide)
		assert.Equal(t, i+1, frame.Slide.Order)
	}

	p.Seek(3)
	frame := p.Frame()
	assert.Equal(t, "4 / 4", frame.Indicator)
	assert.True(t, frame.End)
	assert.Equal(t, EndMarker, frame.EndMarker)

	p.Seek(1)
	assert.Empty(t, p.Frame().EndMarker)
}

func TestPresenter_Seek(t *testing.T) {
	p := NewPresenter(slides(3))

	p.Seek(-5)
	assert.Equal(t, 0, p.Index())
	p.Seek(99)
	assert.Equal(t, 2, p.Index())
}

func TestPresenter_Empty(t *testing.T) {
	p := NewPresenter(nil)

	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
	assert.False(t, p.Next())

	_, ok := p.Current()
	assert.False(t, ok)

	frame := p.Frame()
	assert.Equal(t, "0 / 0", frame.Indicator)
	assert.Nil(t, frame.Slide)
	assert.False(t, frame.End)
}

func TestPresenter_SingleSlideIsTheEnd(t *testing.T) {
	frame := NewPresenter(slides(1)).Frame()

	assert.Equal(t, "1 / 1", frame.Indicator)
	assert.False(t, frame.HasPrev)
	assert.False(t, frame.HasNext)
	assert.Equal(t, EndMarker, frame.EndMarker)
}
