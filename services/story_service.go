package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/kids-story-backend/models"
	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
)

// StoryService is the authoring side of stories.
type StoryService struct {
	store     repository.StoryStore
	sequencer *Sequencer
	log       logger.Logger
	now       func() time.Time
}

func NewStoryService(store repository.StoryStore, sequencer *Sequencer, log logger.Logger) *StoryService {
	return &StoryService{
		store:     store,
		sequencer: sequencer,
		log:       log.WithComponent("StoryService"),
		now:       time.Now,
	}
}

// ListAll returns every story, newest first
func (s *StoryService) ListAll(ctx context.Context) ([]models.Story, error) {
	return s.store.ListStories(ctx, repository.StoryFilter{})
}

func (s *StoryService) Get(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	story, err := s.store.GetStory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.WrapWithCode(apperrors.ErrNotFound, "story", "Story not found.")
		}
		return nil, err
	}
	return story, nil
}

func (s *StoryService) Create(ctx context.Context, sess *Session, submissionID string, draft *Draft, observe ProgressObserver) (*Submission, error) {
	return s.sequencer.Submit(ctx, sess, submissionID, draft, nil, observe)
}

// Update re-runs the sequence against an existing story. New slides are
// appended; existing slides are left as they are. The story is not loaded
// when the session or the title is rejected.
func (s *StoryService) Update(ctx context.Context, sess *Session, id uuid.UUID, submissionID string, draft *Draft, observe ProgressObserver) (*Submission, error) {
	if sub, err := s.sequencer.Reject(sess, submissionID, draft, observe); err != nil {
		return sub, err
	}

	story, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sequencer.Submit(ctx, sess, submissionID, draft, story, observe)
}

// Delete removes the slides of the story and then the story itself. The story
// delete is attempted even when the slide delete fails or matches nothing.
func (s *StoryService) Delete(ctx context.Context, sess *Session, id uuid.UUID) error {
	if !sess.Valid(s.now()) {
		return apperrors.WrapWithCode(apperrors.ErrUnauthorized, "session", "You must be logged in to delete stories.")
	}
	if !sess.CanAuthor() {
		return apperrors.WrapWithCode(apperrors.ErrForbidden, "session", "Your account cannot delete stories.")
	}

	slides, slidesErr := s.store.DeleteSlidesByStory(ctx, id)
	if slidesErr != nil {
		s.log.Error("Slide delete error", "story_id", id, "error", slidesErr)
	}

	stories, storyErr := s.store.DeleteStory(ctx, id)
	if storyErr != nil {
		s.log.Error("Story delete error", "story_id", id, "error", storyErr)
	}

	if err := errors.Join(slidesErr, storyErr); err != nil {
		return apperrors.WrapWithCode(errors.Join(apperrors.ErrWrite, err), "story", "Error deleting story.")
	}
	if stories == 0 {
		return apperrors.WrapWithCode(apperrors.ErrNotFound, "story", "Story not found.")
	}

	s.log.Info("Deleted story", "story_id", id, "slides", slides, "user_id", sess.UserID)
	return nil
}
