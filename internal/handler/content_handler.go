package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/pkg/response"
)

type contentService interface {
	Navigation(ctx context.Context) (*models.Navigation, error)
	Home(ctx context.Context) (*models.HomePage, error)
	About(ctx context.Context) (*models.AboutPage, error)
	Certification(ctx context.Context) (*models.CertificationPage, error)
}

// ContentHandler serves the route table and the static pages.
type ContentHandler struct {
	service contentService
}

// NewContentHandler builds a new handler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// Navigation godoc
// @Summary Site navigation
// @Description Route table, header and footer links, contact details.
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /navigation [get]
func (h *ContentHandler) Navigation(c *gin.Context) {
	nav, err := h.service.Navigation(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nav)
}

// Home godoc
// @Summary Home page
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pages/home [get]
func (h *ContentHandler) Home(c *gin.Context) {
	page, err := h.service.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// About godoc
// @Summary About page
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pages/about [get]
func (h *ContentHandler) About(c *gin.Context) {
	page, err := h.service.About(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// Certification godoc
// @Summary Certification page
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pages/certification [get]
func (h *ContentHandler) Certification(c *gin.Context) {
	page, err := h.service.Certification(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}
