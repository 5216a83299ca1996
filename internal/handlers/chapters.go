package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwpark-dev/tripnote/internal/middleware"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

// ChapterHandler exposes travel chapter CRUD for the authenticated account.
type ChapterHandler struct {
	chapters *services.ChapterService
}

func NewChapterHandler(chapters *services.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapters: chapters}
}

type createChapterRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Country       string     `json:"country" validate:"max=100"`
	CoverImageURL string     `json:"cover_image_url" validate:"omitempty,url"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

type updateChapterRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Country       *string    `json:"country" validate:"omitempty,max=100"`
	CoverImageURL *string    `json:"cover_image_url" validate:"omitempty,url"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

// POST /api/chapters
func (h *ChapterHandler) Create(c *gin.Context) {
	var req createChapterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	chapter, err := h.chapters.Create(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), services.CreateChapterInput{
		Title:         req.Title,
		Country:       req.Country,
		CoverImageURL: req.CoverImageURL,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, chapter)
}

// GET /api/chapters
func (h *ChapterHandler) List(c *gin.Context) {
	chapters, err := h.chapters.List(requestContext(c), middleware.CurrentPrincipal(c).AccountID())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, chapters)
}

// GET /api/chapters/:id
func (h *ChapterHandler) Get(c *gin.Context) {
	chapter, err := h.chapters.Get(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, chapter)
}

// PATCH /api/chapters/:id
func (h *ChapterHandler) Update(c *gin.Context) {
	var req updateChapterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	chapter, err := h.chapters.Update(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"), services.UpdateChapterInput{
		Title:         req.Title,
		Country:       req.Country,
		CoverImageURL: req.CoverImageURL,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, chapter)
}

// POST /api/chapters/:id/close
func (h *ChapterHandler) Close(c *gin.Context) {
	chapter, err := h.chapters.Close(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, chapter)
}

// DELETE /api/chapters/:id
func (h *ChapterHandler) Delete(c *gin.Context) {
	if err := h.chapters.Delete(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "chapter deleted"})
}
