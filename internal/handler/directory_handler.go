package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/response"
)

type directoryService interface {
	Student(ctx context.Context, id int64) (*models.Profile, error)
	Teacher(ctx context.Context, id int64) (*models.Profile, error)
	FilterSessions(ctx context.Context, req models.SessionFilterRequest) (*models.SessionFilterResponse, error)
}

// DirectoryHandler serves profiles and class sessions.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(svc directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Student godoc
// @Summary Get a student profile
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} response.ErrorBody
// @Router /student/{id} [get]
func (h *DirectoryHandler) Student(c *gin.Context) {
	h.profile(c, h.service.Student)
}

// Teacher godoc
// @Summary Get a teacher profile
// @Tags Directory
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} response.ErrorBody
// @Router /teacher/{id} [get]
func (h *DirectoryHandler) Teacher(c *gin.Context) {
	h.profile(c, h.service.Teacher)
}

func (h *DirectoryHandler) profile(c *gin.Context, lookup func(context.Context, int64) (*models.Profile, error)) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := lookup(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// FilterSessions godoc
// @Summary List class sessions on a date
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SessionFilterRequest true "Filter payload"
// @Success 200 {object} models.SessionFilterResponse
// @Failure 400 {object} response.ErrorBody
// @Router /classSessions/filter [post]
func (h *DirectoryHandler) FilterSessions(c *gin.Context) {
	var req models.SessionFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	res, err := h.service.FilterSessions(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
