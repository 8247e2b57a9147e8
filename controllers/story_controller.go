package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/kids-story-backend/middleware"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/services"
)

// ProgressPublisher receives every submission snapshot
type ProgressPublisher interface {
	SendProgress(userID uuid.UUID, p services.Progress)
}

type StoryController struct {
	stories  *services.StoryService
	progress ProgressPublisher
	log      logger.Logger
}

func NewStoryController(stories *services.StoryService, progress ProgressPublisher, log logger.Logger) *StoryController {
	return &StoryController{stories: stories, progress: progress, log: log.WithComponent("StoryController")}
}

func (h *StoryController) List(c *gin.Context) {
	stories, err := h.stories.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("Admin story list error", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (h *StoryController) Get(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	story, err := h.stories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *StoryController) Create(c *gin.Context) {
	h.submit(c, nil)
}

func (h *StoryController) Update(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}
	h.submit(c, &id)
}

func (h *StoryController) Delete(c *gin.Context) {
	id, ok := storyID(c)
	if !ok {
		return
	}

	session, _ := middleware.CurrentSession(c)
	if err := h.stories.Delete(c.Request.Context(), session, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story deleted."})
}

// submit runs the upload sequence to completion even if the client goes away.
// Progress is pushed to /ws/uploads/<submission_id>; a client that wants to
// watch it picks the id and sends it as submission_id.
func (h *StoryController) submit(c *gin.Context, editing *uuid.UUID) {
	session, _ := middleware.CurrentSession(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}
	defer form.RemoveAll()

	draft, err := draftFromForm(form)
	if err != nil {
		respondError(c, err)
		return
	}

	submissionID := firstValue(form.Value, "submission_id")
	if submissionID == "" {
		submissionID = uuid.New().String()
	}

	var observe services.ProgressObserver
	if h.progress != nil && session != nil {
		owner := session.UserID
		observe = func(p services.Progress) { h.progress.SendProgress(owner, p) }
	}

	ctx := context.WithoutCancel(c.Request.Context())

	var sub *services.Submission
	if editing != nil {
		sub, err = h.stories.Update(ctx, session, *editing, submissionID, draft, observe)
	} else {
		sub, err = h.stories.Create(ctx, session, submissionID, draft, observe)
	}

	if err != nil {
		body := gin.H{"error": errorMessage(err)}
		if sub != nil {
			body["submission"] = sub.Progress()
		}
		c.JSON(statusOf(err), body)
		return
	}

	status := http.StatusCreated
	message := "Story created."
	if editing != nil {
		status = http.StatusOK
		message = "Story updated."
	}

	c.JSON(status, gin.H{
		"message":    message,
		"story":      sub.Story,
		"slides":     sub.Slides,
		"submission": sub.Progress(),
	})
}

func storyID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid story id"})
		return uuid.Nil, false
	}
	return id, true
}
