package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/kids-story-backend/models"
	"github.com/vnkhanh/kids-story-backend/services"
)

type CatalogController struct {
	catalog  *services.Catalog
	taxonomy *services.TaxonomyService
}

func NewCatalogController(catalog *services.Catalog, taxonomy *services.TaxonomyService) *CatalogController {
	return &CatalogController{catalog: catalog, taxonomy: taxonomy}
}

// List handles GET /api/stories?category=&theme=
func (h *CatalogController) List(c *gin.Context) {
	result := h.catalog.List(c.Request.Context(), c.Query("category"), c.Query("theme"))
	if !respondState(c, result.State, "Stories") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": result.Value})
}

func (h *CatalogController) Get(c *gin.Context) {
	result := h.catalog.Page(c.Request.Context(), c.Param("slug"))
	if !respondState(c, result.State, "Story") {
		return
	}

	h.catalog.RecordView(c.Request.Context(), result.Value.Story.ID)
	c.JSON(http.StatusOK, result.Value)
}

func (h *CatalogController) Slides(c *gin.Context) {
	story := h.catalog.BySlug(c.Request.Context(), c.Param("slug"))
	if !respondState(c, story.State, "Story") {
		return
	}

	slides := h.catalog.Slides(c.Request.Context(), story.Value.ID)
	if !respondState(c, slides.State, "Slides") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"slides": slides.Value})
}

// Viewer handles GET /api/stories/:slug/viewer?index=N&action=next|prev and
// returns the frame the viewer shows after the action.
func (h *CatalogController) Viewer(c *gin.Context) {
	index := 0
	if raw := c.Query("index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a number"})
			return
		}
		index = n
	}

	action := c.Query("action")
	if action != "" && action != "next" && action != "prev" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be next or prev"})
		return
	}

	page := h.catalog.Page(c.Request.Context(), c.Param("slug"))
	if !respondState(c, page.State, "Story") {
		return
	}

	presenter := services.NewPresenter(page.Value.Slides)
	presenter.Seek(index)
	switch action {
	case "next":
		presenter.Next()
	case "prev":
		presenter.Prev()
	}

	c.JSON(http.StatusOK, gin.H{
		"story": viewerStory(page.Value.Story),
		"frame": presenter.Frame(),
	})
}

func (h *CatalogController) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.taxonomy.FilterOptions(c.Request.Context()))
}

func viewerStory(s models.Story) gin.H {
	return gin.H{
		"id":              s.ID,
		"title":           s.Title,
		"slug":            s.Slug,
		"cover_image_url": s.CoverImageURL,
		"cover_audio_url": s.CoverAudioURL,
	}
}

// respondState writes the response for every state but populated and
// reports whether the caller should go on.
func respondState(c *gin.Context, state services.ReadState, what string) bool {
	switch state {
	case services.StatePopulated:
		return true
	case services.StateNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load " + strings.ToLower(what)})
	}
	return false
}
