package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vnkhanh/kids-story-backend/models"
	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository/mocks"
	"github.com/vnkhanh/kids-story-backend/storage"
	storagemocks "github.com/vnkhanh/kids-story-backend/storage/mocks"
)

const testMediaBase = "https://cdn.test/media"

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func editorSession() *Session {
	return &Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Role:      models.RoleEditor,
		ExpiresAt: testNow.Add(time.Hour),
	}
}

func newTestSequencer(t *testing.T) (*Sequencer, *mocks.MockStoryStore, *storagemocks.MockObjectStorage) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStoryStore(ctrl)
	objects := storagemocks.NewMockObjectStorage(ctrl)

	seq := NewSequencer(store, objects, testMediaBase, logger.NewNop())
	n := 0
	seq.newKey = func() string {
		n++
		return fmt.Sprintf("key-%d", n)
	}
	seq.now = func() time.Time { return testNow }
	return seq, store, objects
}

// returnKey makes the storage mock answer with the generated key as path
func returnKey(_ context.Context, _, key string, body io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	return key, nil
}

func png(name string) *FileHandle {
	return FileFromBytes(name, "image/png", []byte(name))
}

func mp3(name string) *FileHandle {
	return FileFromBytes(name, "audio/mpeg", []byte(name))
}

func TestSubmit_EmptyTitleMakesNoCalls(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", title), func(t *testing.T) {
			seq, _, _ := newTestSequencer(t)

			draft := NewDraft()
			draft.Title = title
			draft.SetCoverImage(png("cover.png"))
			draft.AddSlide()

			sub, err := seq.Submit(context.Background(), editorSession(), "sub-1", draft, nil, nil)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, "Title is required.", apperrors.GetMessage(err))
			assert.Equal(t, PhaseFailed, sub.Phase())
			assert.Equal(t, []Phase{PhaseIdle, PhaseFailed}, sub.History())
			assert.Len(t, draft.Slides, 1, "draft is kept on failure")
		})
	}
}

func TestSubmit_RequiresAuthoringSession(t *testing.T) {
	expired := editorSession()
	expired.ExpiresAt = testNow.Add(-time.Minute)

	reader := editorSession()
	reader.Role = models.RoleReader

	tests := []struct {
		name    string
		session *Session
		status  int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"reader", reader, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, _, _ := newTestSequencer(t)

			draft := NewDraft()
			draft.Title = "Fox"

			sub, err := seq.Submit(context.Background(), tt.session, "sub-1", draft, nil, nil)

			require.Error(t, err)
			assert.Equal(t, tt.status, apperrors.HTTPStatus(err))
			assert.Equal(t, PhaseFailed, sub.Phase())
		})
	}
}

func TestSubmit_Fox(t *testing.T) {
	seq, store, objects := newTestSequencer(t)
	session := editorSession()
	storyID := uuid.New()

	draft := NewDraft()
	require.NoError(t, draft.SetField(FieldTitle, "Fox"))
	i := draft.AddSlide()
	require.NoError(t, draft.SetSlideImage(i, png("A.png")))
	require.NoError(t, draft.SetSlideText(i, "Once"))
	i = draft.AddSlide()
	require.NoError(t, draft.SetSlideImage(i, png("B.png")))
	require.NoError(t, draft.SetSlideAudio(i, mp3("C.mp3")))
	require.NoError(t, draft.SetSlideText(i, "upon a time"))

	store.EXPECT().CreateStory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, story *models.Story) error {
			assert.Equal(t, "Fox", story.Title)
			assert.Equal(t, "fox", story.Slug)
			require.NotNil(t, story.CreatedBy)
			assert.Equal(t, session.UserID, *story.CreatedBy)
			story.ID = storyID
			return nil
		})

	objects.EXPECT().Upload(gomock.Any(), storage.FolderImages, gomock.Any(), gomock.Any(), gomock.Any(), "image/png").
		DoAndReturn(returnKey).Times(2)
	objects.EXPECT().Upload(gomock.Any(), storage.FolderAudio, gomock.Any(), gomock.Any(), gomock.Any(), "audio/mpeg").
		DoAndReturn(returnKey)

	var inserted []models.Slide
	store.EXPECT().CreateSlide(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, slide *models.Slide) error {
			inserted = append(inserted, *slide)
			return nil
		}).Times(2)

	sub, err := seq.Submit(context.Background(), session, "sub-fox", draft, nil, nil)
	require.NoError(t, err)

	require.Len(t, inserted, 2)
	assert.Equal(t, 1, inserted[0].Order)
	assert.Equal(t, 2, inserted[1].Order)
	assert.Equal(t, storyID, inserted[0].StoryID)
	assert.Equal(t, storyID, inserted[1].StoryID)
	assert.Equal(t, "Once", inserted[0].Text)
	assert.Equal(t, "upon a time", inserted[1].Text)

	require.NotNil(t, inserted[0].ImageURL)
	assert.Equal(t, testMediaBase+"/images/key-1", *inserted[0].ImageURL)
	assert.Nil(t, inserted[0].AudioURL)
	require.NotNil(t, inserted[1].AudioURL)
	assert.Equal(t, testMediaBase+"/audio/key-3", *inserted[1].AudioURL)

	assert.Equal(t, PhaseDone, sub.Phase())
	assert.Equal(t, []Phase{PhaseIdle, PhaseWritingStory, PhaseUploadingSlide, PhaseUploadingSlide, PhaseDone}, sub.History())
	assert.Equal(t, 100, sub.Progress().Percent)
	assert.Empty(t, sub.Failures())
	assert.Equal(t, "fox", sub.Story.Slug)
	assert.Len(t, sub.Slides, 2)

	assert.Empty(t, draft.Title, "draft is cleared after success")
	assert.Empty(t, draft.Slides)
}

func TestSubmit_EverySlideIsInsertedInOrder(t *testing.T) {
	seq, store, objects := newTestSequencer(t)

	draft := NewDraft()
	draft.Title = "Three Little Pigs"
	for n := 0; n < 3; n++ {
		draft.AddSlide()
	}
	require.NoError(t, draft.SetSlideImage(0, png("straw.png")))
	require.NoError(t, draft.SetSlideText(1, "sticks"))
	require.NoError(t, draft.SetSlideAudio(2, mp3("bricks.mp3")))

	store.EXPECT().CreateStory(gomock.Any(), gomock.Any()).Return(nil)

	objects.EXPECT().Upload(gomock.Any(), storage.FolderImages, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("bucket unavailable"))
	objects.EXPECT().Upload(gomock.Any(), storage.FolderAudio, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("timeout"))

	var orders []int
	record := func(_ context.Context, slide *models.Slide) error {
		orders = append(orders, slide.Order)
		assert.Nil(t, slide.ImageURL)
		assert.Nil(t, slide.AudioURL)
		return nil
	}
	gomock.InOrder(
		store.EXPECT().CreateSlide(gomock.Any(), gomock.Any()).DoAndReturn(record),
		store.EXPECT().CreateSlide(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, slide *models.Slide) error {
				_ = record(ctx, slide)
				return errors.New("insert failed")
			}),
		store.EXPECT().CreateSlide(gomock.Any(), gomock.Any()).DoAndReturn(record),
	)

	var percents []int
	observe := func(p Progress) {
		if p.Phase == PhaseUploadingSlide && p.Percent > 0 && (len(percents) == 0 || percents[len(percents)-1] != p.Percent) {
			percents = append(percents, p.Percent)
		}
	}

	sub, err := seq.Submit(context.Background(), editorSession(), "sub-pigs", draft, nil, observe)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, orders)
	assert.Equal(t, []int{33, 67, 100}, percents)
	assert.Equal(t, PhaseDone, sub.Phase())
	assert.Len(t, sub.Slides, 2)
	assert.Equal(t, []SlideFailure{
		{Position: 1, Stage: StageImageUpload, Error: "bucket unavailable"},
		{Position: 2, Stage: StageInsert, Error: "insert failed"},
		{Position: 3, Stage: StageAudioUpload, Error: "timeout"},
	}, sub.Failures())
}

func TestSubmit_BlankSlideTextGetsPlaceholder(t *testing.T) {
	seq, store, _ := newTestSequencer(t)

	draft := NewDraft()
	draft.Title = "Quiet"
	draft.AddSlide()
	require.NoError(t, draft.SetSlideText(0, "  "))

	store.EXPECT().CreateStory(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().CreateSlide(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, slide *models.Slide) error {
			assert.Equal(t, models.SlidePlaceholderText, slide.Text)
			return nil
		})

	_, err := seq.Submit(context.Background(), editorSession(), "sub-quiet", draft, nil, nil)
	require.NoError(t, err)
}

func TestSubmit_CoverUploadFailureIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(d *Draft)
		folder  string
		message string
	}{
		{"cover image", func(d *Draft) { d.SetCoverImage(png("cover.png")) }, storage.FolderCovers, "Error uploading cover image."},
		{"cover audio", func(d *Draft) { d.SetCoverAudio(mp3("intro.mp3")) }, storage.FolderAudio, "Error uploading cover audio."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, _, objects := newTestSequencer(t)

			draft := NewDraft()
			draft.Title = "Fox"
			draft.AddSlide()
			tt.prepare(draft)

			objects.EXPECT().Upload(gomock.Any(), tt.folder, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return("", errors.New("503"))

			sub, err := seq.Submit(context.Background(), editorSession(), "sub-1", draft, nil, nil)

			require.Error(t, err)
			assert.Equal(t, tt.message, apperrors.GetMessage(err))
			assert.Equal(t, http.StatusBadGateway, apperrors.HTTPStatus(err))
			assert.Equal(t, []Phase{PhaseIdle, PhaseUploadingCover, PhaseFailed}, sub.History())
			assert.Nil(t, sub.Story)
			assert.Equal(t, "Fox", draft.Title, "draft is kept on failure")
		})
	}
}

func TestSubmit_EmptyStoragePathIsAnUploadFailure(t *testing.T) {
	seq, _, objects := newTestSequencer(t)

	draft := NewDraft()
	draft.Title = "Fox"
	draft.SetCoverImage(png("cover.png"))

	objects.EXPECT().Upload(gomock.Any(), storage.FolderCovers, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", nil)

	_, err := seq.Submit(context.Background(), editorSession(), "sub-1", draft, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "Error uploading cover image.", apperrors.GetMessage(err))
}

func TestSubmit_StoryInsertFailureIsFatal(t *testing.T) {
	seq, store, _ := newTestSequencer(t)

	draft := NewDraft()
	draft.Title = "Fox"
	draft.AddSlide()

	store.EXPECT().CreateStory(gomock.Any(), gomock.Any()).Return(errors.New("duplicate key"))

	sub, err := seq.Submit(context.Background(), editorSession(), "sub-1", draft, nil, nil)

	require.Error(t, err)
	assert.Equal(t, "Error inserting story.", apperrors.GetMessage(err))
	assert.ErrorIs(t, err, apperrors.ErrWrite)
	assert.Equal(t, PhaseFailed, sub.Phase())
	assert.Equal(t, "Error inserting story.", sub.Progress().Error)
}

func TestSubmit_EditRecomputesSlugAndKeepsCovers(t *testing.T) {
	seq, store, objects := newTestSequencer(t)

	editing := &models.Story{
		ID:            uuid.New(),
		Title:         "My Tale",
		Slug:          "my-tale",
		CoverImageURL: "https://cdn.test/media/covers/old",
		CoverAudioURL: "https://cdn.test/media/audio/old",
		ViewCount:     12,
	}

	draft := NewDraft()
	draft.Title = "My Tale!"
	draft.Category = "Folktale"
	draft.SetCoverAudio(mp3("new.mp3"))

	objects.EXPECT().Upload(gomock.Any(), storage.FolderAudio, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(returnKey)
	store.EXPECT().UpdateStory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, story *models.Story) error {
			assert.Equal(t, editing.ID, story.ID)
			assert.Equal(t, "my-tale!", story.Slug)
			assert.Equal(t, editing.CoverImageURL, story.CoverImageURL)
			assert.Equal(t, testMediaBase+"/audio/key-1", story.CoverAudioURL)
			assert.Equal(t, "Folktale", story.Category)
			return nil
		})

	sub, err := seq.Submit(context.Background(), editorSession(), "sub-edit", draft, editing, nil)
	require.NoError(t, err)

	assert.Equal(t, PhaseDone, sub.Phase())
	assert.Equal(t, "My Tale", editing.Title, "the editing reference is not mutated")
}

func TestSubmit_StoryUpdateFailureIsFatal(t *testing.T) {
	seq, store, _ := newTestSequencer(t)

	draft := NewDraft()
	draft.Title = "Fox"

	store.EXPECT().UpdateStory(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := seq.Submit(context.Background(), editorSession(), "sub-1", draft, &models.Story{ID: uuid.New()}, nil)
	require.Error(t, err)
	assert.Equal(t, "Error updating story.", apperrors.GetMessage(err))
}
