package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorySlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Tale", "my-tale"},
		{"My Tale!", "my-tale!"},
		{"Fox", "fox"},
		{"The  Monkey\tand the\nCrocodile", "the-monkey-and-the-crocodile"},
		{" Leading", "-leading"},
		{"Rāma's Bridge", "rāma's-bridge"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, StorySlug(tt.title))
		})
	}
}
