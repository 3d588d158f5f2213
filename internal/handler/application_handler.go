package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dsa-enrollment-api/internal/dto"
	"github.com/noah-isme/dsa-enrollment-api/internal/forms"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/validator"
	"github.com/noah-isme/dsa-enrollment-api/pkg/response"
)

type applicationService interface {
	Create(ctx context.Context) (*forms.Application, error)
	Get(ctx context.Context, id string) (*forms.Application, error)
	SetField(ctx context.Context, id, field, value string) (*forms.Application, error)
	Validate(ctx context.Context, id string) (*forms.Application, error)
	Submit(ctx context.Context, id string) (*forms.Application, error)
	Reset(ctx context.Context, id string) (*forms.Application, error)
	Acknowledgement(ctx context.Context, id string) ([]byte, string, error)
}

type applicationOptionsProvider interface {
	ApplicationOptions() models.ApplicationOptions
}

// ApplicationHandler drives course application form sessions.
type ApplicationHandler struct {
	service applicationService
	options applicationOptionsProvider
}

// NewApplicationHandler builds a new handler.
func NewApplicationHandler(service applicationService, options applicationOptionsProvider) *ApplicationHandler {
	return &ApplicationHandler{service: service, options: options}
}

// Options godoc
// @Summary Application form choices
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /applications/options [get]
func (h *ApplicationHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.options.ApplicationOptions())
}

// Create godoc
// @Summary Open an application
// @Tags Applications
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	app, err := h.service.Create(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// Get godoc
// @Summary Read an application
// @Tags Applications
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	app, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// SetField godoc
// @Summary Update an application field
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SetFieldRequest true "Field update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/fields [patch]
func (h *ApplicationHandler) SetField(c *gin.Context) {
	var req dto.SetFieldRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	app, err := h.service.SetField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// Validate godoc
// @Summary Validate an application without submitting
// @Tags Applications
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/validate [post]
func (h *ApplicationHandler) Validate(c *gin.Context) {
	app, err := h.service.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, map[string]interface{}{"valid": len(app.Errors) == 0})
}

// Submit godoc
// @Summary Submit an application
// @Description Returns 422 with the session and its field errors when validation fails.
// @Tags Applications
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /applications/{id}/submit [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	app, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if app != nil {
			response.ErrorWithData(c, err, app)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// Reset godoc
// @Summary Reset an application
// @Tags Applications
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/reset [post]
func (h *ApplicationHandler) Reset(c *gin.Context) {
	app, err := h.service.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app)
}

// Acknowledgement godoc
// @Summary Download the acknowledgement of a submitted application
// @Tags Applications
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/acknowledgement.pdf [get]
func (h *ApplicationHandler) Acknowledgement(c *gin.Context) {
	out, filename, err := h.service.Acknowledgement(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", out)
}
