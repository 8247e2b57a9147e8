package controllers

import (
	"fmt"
	"mime/multipart"
	"regexp"
	"strconv"

	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/services"
)

const (
	maxSlides     = 200
	maxFormMemory = 32 << 20
)

var slideFieldPattern = regexp.MustCompile(`^slides\[(\d+)\]\[(text|image|audio)\]$`)

// draftFromForm builds a draft from the story form:
// title, description, category, theme, cover_image, cover_audio, slide_count and
// slides[i][text|image|audio] with zero-based i.
func draftFromForm(form *multipart.Form) (*services.Draft, error) {
	draft := services.NewDraft()

	for _, field := range []string{services.FieldTitle, services.FieldDescription, services.FieldCategory, services.FieldTheme} {
		if err := draft.SetField(field, firstValue(form.Value, field)); err != nil {
			return nil, err
		}
	}

	if fh := firstFile(form.File, "cover_image"); fh != nil {
		draft.SetCoverImage(services.FileFromHeader(fh))
	}
	if fh := firstFile(form.File, "cover_audio"); fh != nil {
		draft.SetCoverAudio(services.FileFromHeader(fh))
	}

	count, err := slideCount(form)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		draft.AddSlide()
	}

	for key, values := range form.Value {
		index, field, ok := slideField(key)
		if !ok || field != "text" || len(values) == 0 {
			continue
		}
		if err := draft.SetSlideText(index, values[0]); err != nil {
			return nil, err
		}
	}

	for key, files := range form.File {
		index, field, ok := slideField(key)
		if !ok || len(files) == 0 {
			continue
		}
		file := services.FileFromHeader(files[0])
		switch field {
		case "image":
			err = draft.SetSlideImage(index, file)
		case "audio":
			err = draft.SetSlideAudio(index, file)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	return draft, nil
}

// slideCount is slide_count when sent, otherwise one past the highest slide index
func slideCount(form *multipart.Form) (int, error) {
	count := 0
	if raw := firstValue(form.Value, "slide_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, apperrors.Validation("slide_count must be a non-negative number.")
		}
		count = n
	} else {
		for key := range form.Value {
			if index, _, ok := slideField(key); ok && index+1 > count {
				count = index + 1
			}
		}
		for key := range form.File {
			if index, _, ok := slideField(key); ok && index+1 > count {
				count = index + 1
			}
		}
	}

	if count > maxSlides {
		return 0, apperrors.Validation(fmt.Sprintf("A story can have at most %d slides.", maxSlides))
	}
	return count, nil
}

func slideField(key string) (int, string, bool) {
	m := slideFieldPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, "", false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return index, m[2], true
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func firstFile(files map[string][]*multipart.FileHeader, key string) *multipart.FileHeader {
	if f := files[key]; len(f) > 0 {
		return f[0]
	}
	return nil
}
