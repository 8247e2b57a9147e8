package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/kids-story-backend/models"
	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
	"github.com/vnkhanh/kids-story-backend/storage"
)

// Phase is a state of the upload sequence:
// idle -> uploading_cover -> writing_story -> uploading_slide(i) -> done | failed
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseUploadingCover Phase = "uploading_cover"
	PhaseWritingStory   Phase = "writing_story"
	PhaseUploadingSlide Phase = "uploading_slide"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// Stages at which a single slide can degrade
const (
	StageImageUpload = "image_upload"
	StageAudioUpload = "audio_upload"
	StageInsert      = "insert"
)

type SlideFailure struct {
	Position int    `json:"position"`
	Stage    string `json:"stage"`
	Error    string `json:"error"`
}

type Progress struct {
	SubmissionID string         `json:"submission_id"`
	Phase        Phase          `json:"phase"`
	Slide        int            `json:"slide,omitempty"`
	Total        int            `json:"total"`
	Percent      int            `json:"percent"`
	Failures     []SlideFailure `json:"failures,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// ProgressObserver receives a snapshot on every transition
type ProgressObserver func(Progress)

// Submission is the inspectable state of one run of the sequence.
type Submission struct {
	ID     string
	Story  *models.Story
	Slides []models.Slide

	progress Progress
	history  []Phase
	observe  ProgressObserver
}

func newSubmission(id string, total int, observe ProgressObserver) *Submission {
	return &Submission{
		ID:       id,
		progress: Progress{SubmissionID: id, Phase: PhaseIdle, Total: total},
		history:  []Phase{PhaseIdle},
		observe:  observe,
	}
}

func (s *Submission) Progress() Progress {
	p := s.progress
	p.Failures = append([]SlideFailure(nil), s.progress.Failures...)
	return p
}

// History lists the phases the submission went through, in order
func (s *Submission) History() []Phase {
	return append([]Phase(nil), s.history...)
}

func (s *Submission) Phase() Phase {
	return s.progress.Phase
}

func (s *Submission) Failures() []SlideFailure {
	return append([]SlideFailure(nil), s.progress.Failures...)
}

func (s *Submission) transition(phase Phase) {
	s.progress.Phase = phase
	s.history = append(s.history, phase)
	s.notify()
}

func (s *Submission) startSlide(position int) {
	s.progress.Slide = position
	s.transition(PhaseUploadingSlide)
}

func (s *Submission) finishSlide(position int) {
	s.progress.Percent = int(math.Round(float64(position) / float64(s.progress.Total) * 100))
	s.notify()
}

func (s *Submission) fail(err error) error {
	s.progress.Error = apperrors.GetMessage(err)
	s.transition(PhaseFailed)
	return err
}

func (s *Submission) slideFailed(position int, stage string, err error) {
	s.progress.Failures = append(s.progress.Failures, SlideFailure{
		Position: position,
		Stage:    stage,
		Error:    err.Error(),
	})
}

func (s *Submission) notify() {
	if s.observe != nil {
		s.observe(s.Progress())
	}
}

// Sequencer turns a draft into a persisted story and its slides.
// Every step runs strictly after the previous one; nothing is retried and no
// transaction spans the steps.
type Sequencer struct {
	store     repository.StoryStore
	storage   storage.ObjectStorage
	mediaBase string
	log       logger.Logger

	newKey func() string
	now    func() time.Time
}

func NewSequencer(store repository.StoryStore, objects storage.ObjectStorage, mediaBase string, log logger.Logger) *Sequencer {
	return &Sequencer{
		store:     store,
		storage:   objects,
		mediaBase: mediaBase,
		log:       log.WithComponent("UploadSequencer"),
		newKey:    func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// Submit runs the whole sequence for draft. editing is nil for a new story.
// The returned submission is never nil; on a fatal failure it is in the failed
// phase and the error tells why. Per-slide failures are not errors.
func (s *Sequencer) Submit(ctx context.Context, sess *Session, submissionID string, draft *Draft, editing *models.Story, observe ProgressObserver) (*Submission, error) {
	sub := newSubmission(submissionID, len(draft.Slides), observe)

	if err := s.check(sess, draft); err != nil {
		return sub, sub.fail(err)
	}

	slug := StorySlug(draft.Title)

	coverURL, coverAudioURL := "", ""
	if editing != nil {
		coverURL, coverAudioURL = editing.CoverImageURL, editing.CoverAudioURL
	}

	if draft.CoverImage != nil || draft.CoverAudio != nil {
		sub.transition(PhaseUploadingCover)
	}

	if draft.CoverImage != nil {
		url, err := s.upload(ctx, storage.FolderCovers, draft.CoverImage)
		if err != nil {
			s.log.Error("Cover upload error", "submission", submissionID, "error", err)
			return sub, sub.fail(apperrors.WrapWithCode(errors.Join(apperrors.ErrUpload, err), "cover_image", "Error uploading cover image."))
		}
		coverURL = url
	}

	if draft.CoverAudio != nil {
		url, err := s.upload(ctx, storage.FolderAudio, draft.CoverAudio)
		if err != nil {
			s.log.Error("Cover audio upload error", "submission", submissionID, "error", err)
			return sub, sub.fail(apperrors.WrapWithCode(errors.Join(apperrors.ErrUpload, err), "cover_audio", "Error uploading cover audio."))
		}
		coverAudioURL = url
	}

	sub.transition(PhaseWritingStory)

	var story models.Story
	if editing != nil {
		story = *editing
		story.Title = draft.Title
		story.Description = draft.Description
		story.Slug = slug
		story.CoverImageURL = coverURL
		story.CoverAudioURL = coverAudioURL
		story.Category = draft.Category
		story.Theme = draft.Theme

		if err := s.store.UpdateStory(ctx, &story); err != nil {
			s.log.Error("Story update error", "story_id", story.ID, "error", err)
			return sub, sub.fail(apperrors.WrapWithCode(errors.Join(apperrors.ErrWrite, err), "story", "Error updating story."))
		}
	} else {
		userID := sess.UserID
		story = models.Story{
			Title:         draft.Title,
			Description:   draft.Description,
			Slug:          slug,
			CoverImageURL: coverURL,
			CoverAudioURL: coverAudioURL,
			Category:      draft.Category,
			Theme:         draft.Theme,
			CreatedBy:     &userID,
		}

		if err := s.store.CreateStory(ctx, &story); err != nil {
			s.log.Error("Story insert error", "error", err)
			return sub, sub.fail(apperrors.WrapWithCode(errors.Join(apperrors.ErrWrite, err), "story", "Error inserting story."))
		}
	}
	sub.Story = &story

	s.log.Info("Uploading slides", "submission", submissionID, "story_id", story.ID, "user_id", sess.UserID, "slides", len(draft.Slides))

	for i, slideDraft := range draft.Slides {
		position := i + 1
		sub.startSlide(position)

		slide := models.Slide{
			StoryID: story.ID,
			Text:    slideDraft.Text,
			Order:   position,
		}
		if strings.TrimSpace(slide.Text) == "" {
			slide.Text = models.SlidePlaceholderText
		}

		if slideDraft.Image != nil {
			url, err := s.upload(ctx, storage.FolderImages, slideDraft.Image)
			if err != nil {
				s.log.Error("Slide image upload error", "story_id", story.ID, "slide", position, "error", err)
				sub.slideFailed(position, StageImageUpload, err)
			} else {
				slide.ImageURL = &url
			}
		}

		if slideDraft.Audio != nil {
			url, err := s.upload(ctx, storage.FolderAudio, slideDraft.Audio)
			if err != nil {
				s.log.Error("Slide audio upload error", "story_id", story.ID, "slide", position, "error", err)
				sub.slideFailed(position, StageAudioUpload, err)
			} else {
				slide.AudioURL = &url
			}
		}

		if err := s.store.CreateSlide(ctx, &slide); err != nil {
			s.log.Error("Slide insert error", "story_id", story.ID, "slide", position, "error", err)
			sub.slideFailed(position, StageInsert, err)
		} else {
			sub.Slides = append(sub.Slides, slide)
		}

		sub.finishSlide(position)
	}

	sub.transition(PhaseDone)
	draft.Reset()
	return sub, nil
}

// check rejects a submission before anything touches the network.
func (s *Sequencer) check(sess *Session, draft *Draft) error {
	if !sess.Valid(s.now()) {
		return apperrors.WrapWithCode(apperrors.ErrUnauthorized, "session", "You must be logged in to save stories.")
	}
	if !sess.CanAuthor() {
		return apperrors.WrapWithCode(apperrors.ErrForbidden, "session", "Your account cannot edit stories.")
	}
	if strings.TrimSpace(draft.Title) == "" {
		return apperrors.Validation("Title is required.")
	}
	return nil
}

// Reject returns the failed submission for a draft that does not pass the
// session and title checks, or nil when it does.
func (s *Sequencer) Reject(sess *Session, submissionID string, draft *Draft, observe ProgressObserver) (*Submission, error) {
	if err := s.check(sess, draft); err != nil {
		sub := newSubmission(submissionID, len(draft.Slides), observe)
		return sub, sub.fail(err)
	}
	return nil, nil
}

func (s *Sequencer) upload(ctx context.Context, folder string, file *FileHandle) (string, error) {
	body, err := file.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()

	path, err := s.storage.Upload(ctx, folder, s.newKey(), body, file.Size, file.ContentType)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.New("no path returned from storage")
	}
	return storage.PublicURL(s.mediaBase, folder, path), nil
}
