package services

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
)

func TestDraft_SetField(t *testing.T) {
	d := NewDraft()

	require.NoError(t, d.SetField(FieldTitle, "Fox"))
	require.NoError(t, d.SetField(FieldDescription, "A clever fox"))
	require.NoError(t, d.SetField(FieldCategory, "Folktale"))
	require.NoError(t, d.SetField(FieldTheme, "Wisdom"))

	assert.Equal(t, "Fox", d.Title)
	assert.Equal(t, "A clever fox", d.Description)
	assert.Equal(t, "Folktale", d.Category)
	assert.Equal(t, "Wisdom", d.Theme)

	err := d.SetField("author", "me")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDraft_Slides(t *testing.T) {
	d := NewDraft()

	assert.Equal(t, 0, d.AddSlide())
	assert.Equal(t, 1, d.AddSlide())

	require.NoError(t, d.SetSlideText(1, "second"))
	require.NoError(t, d.SetSlideImage(0, FileFromBytes("a.png", "image/png", []byte("png"))))
	require.NoError(t, d.SetSlideAudio(1, FileFromBytes("b.mp3", "audio/mpeg", []byte("mp3"))))

	assert.Equal(t, "", d.Slides[0].Text)
	assert.Equal(t, "second", d.Slides[1].Text)
	assert.Equal(t, "a.png", d.Slides[0].Image.Name)
	assert.Nil(t, d.Slides[0].Audio)
	assert.Equal(t, "b.mp3", d.Slides[1].Audio.Name)

	for _, index := range []int{-1, 2} {
		assert.True(t, apperrors.IsValidation(d.SetSlideText(index, "x")))
		assert.True(t, apperrors.IsValidation(d.SetSlideImage(index, nil)))
		assert.True(t, apperrors.IsValidation(d.SetSlideAudio(index, nil)))
	}
}

func TestDraft_Reset(t *testing.T) {
	d := NewDraft()
	d.Title = "Fox"
	d.SetCoverImage(FileFromBytes("c.png", "image/png", nil))
	d.SetCoverAudio(FileFromBytes("c.mp3", "audio/mpeg", nil))
	d.AddSlide()

	d.Reset()

	assert.Equal(t, Draft{}, *d)
}

func TestFileHandle_Open(t *testing.T) {
	f := FileFromBytes("a.txt", "text/plain", []byte("hello"))
	assert.EqualValues(t, 5, f.Size)

	body, err := f.Open()
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = (&FileHandle{Name: "empty"}).Open()
	assert.Error(t, err)
}
