package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
)

// FileHandle is a raw media file picked for a cover or a slide.
type FileHandle struct {
	Name        string
	ContentType string
	Size        int64
	open        func() (io.ReadCloser, error)
}

func NewFileHandle(name, contentType string, size int64, open func() (io.ReadCloser, error)) *FileHandle {
	return &FileHandle{Name: name, ContentType: contentType, Size: size, open: open}
}

func FileFromHeader(fh *multipart.FileHeader) *FileHandle {
	return NewFileHandle(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, func() (io.ReadCloser, error) {
		return fh.Open()
	})
}

func FileFromBytes(name, contentType string, data []byte) *FileHandle {
	return NewFileHandle(name, contentType, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

func (f *FileHandle) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// Scalar fields of a draft
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldTheme       = "theme"
)

type SlideDraft struct {
	Image *FileHandle
	Audio *FileHandle
	Text  string
}

// Draft is the uncommitted story form. It lives for one submission only.
type Draft struct {
	Title       string
	Description string
	Category    string
	Theme       string
	CoverImage  *FileHandle
	CoverAudio  *FileHandle
	Slides      []SlideDraft
}

func NewDraft() *Draft {
	return &Draft{}
}

func (d *Draft) SetField(field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldCategory:
		d.Category = value
	case FieldTheme:
		d.Theme = value
	default:
		return apperrors.Validation(fmt.Sprintf("unknown field %q", field))
	}
	return nil
}

func (d *Draft) SetCoverImage(f *FileHandle) {
	d.CoverImage = f
}

func (d *Draft) SetCoverAudio(f *FileHandle) {
	d.CoverAudio = f
}

// AddSlide appends an empty slide draft and returns its position
func (d *Draft) AddSlide() int {
	d.Slides = append(d.Slides, SlideDraft{})
	return len(d.Slides) - 1
}

func (d *Draft) SetSlideText(index int, text string) error {
	slide, err := d.slide(index)
	if err != nil {
		return err
	}
	slide.Text = text
	return nil
}

func (d *Draft) SetSlideImage(index int, f *FileHandle) error {
	slide, err := d.slide(index)
	if err != nil {
		return err
	}
	slide.Image = f
	return nil
}

func (d *Draft) SetSlideAudio(index int, f *FileHandle) error {
	slide, err := d.slide(index)
	if err != nil {
		return err
	}
	slide.Audio = f
	return nil
}

func (d *Draft) Reset() {
	*d = Draft{}
}

func (d *Draft) slide(index int) (*SlideDraft, error) {
	if index < 0 || index >= len(d.Slides) {
		return nil, apperrors.Validation(fmt.Sprintf("slide %d does not exist", index+1))
	}
	return &d.Slides[index], nil
}
