package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwpark-dev/tripnote/internal/middleware"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/errors"
	"github.com/jwpark-dev/tripnote/pkg/response"
)

// EntryHandler exposes diary entry CRUD inside a chapter.
type EntryHandler struct {
	diary *services.DiaryService
}

func NewEntryHandler(diary *services.DiaryService) *EntryHandler {
	return &EntryHandler{diary: diary}
}

type createEntryRequest struct {
	EntryDate *time.Time `json:"entry_date" validate:"required"`
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body"`
}

type updateEntryRequest struct {
	EntryDate *time.Time `json:"entry_date"`
	Title     *string    `json:"title" validate:"omitempty,max=200"`
	Body      *string    `json:"body"`
}

// POST /api/chapters/:id/entries
func (h *EntryHandler) Create(c *gin.Context) {
	var req createEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.EntryDate == nil {
		response.Error(c, errors.NewBadRequest("entry date is required"))
		return
	}

	entry, err := h.diary.Create(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"), services.CreateEntryInput{
		EntryDate: *req.EntryDate,
		Title:     req.Title,
		Body:      req.Body,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// GET /api/chapters/:id/entries
func (h *EntryHandler) List(c *gin.Context) {
	entries, err := h.diary.List(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}

// GET /api/entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	entry, err := h.diary.Get(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// PATCH /api/entries/:id
func (h *EntryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	entry, err := h.diary.Update(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id"), services.UpdateEntryInput{
		EntryDate: req.EntryDate,
		Title:     req.Title,
		Body:      req.Body,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entry)
}

// DELETE /api/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.diary.Delete(requestContext(c), middleware.CurrentPrincipal(c).AccountID(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "entry deleted"})
}
