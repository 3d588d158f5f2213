package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/dsa-enrollment-api/internal/dto"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/realtime"
	"github.com/noah-isme/dsa-enrollment-api/internal/service"
	"github.com/noah-isme/dsa-enrollment-api/internal/validator"
	"github.com/noah-isme/dsa-enrollment-api/pkg/response"
)

type paymentService interface {
	Create(ctx context.Context, courseID string) (*service.PaymentView, error)
	Get(ctx context.Context, id string) (*service.PaymentView, error)
	SelectCourse(ctx context.Context, id, courseID string) (*service.PaymentView, error)
	SetMethod(ctx context.Context, id string, method models.PaymentMethod) (*service.PaymentView, error)
	SetField(ctx context.Context, id, field, value string) (*service.PaymentView, bool, error)
	Submit(ctx context.Context, id string) (*service.PaymentView, error)
	PayWithApp(ctx context.Context, id, app string) (*service.PaymentView, error)
	Cancel(ctx context.Context, id string) (*service.PaymentView, error)
	Reset(ctx context.Context, id string) (*service.PaymentView, error)
	Subscribe(ctx context.Context, id string) (*realtime.Subscription, *service.PaymentView, error)
	ReceiptLink(ctx context.Context, id string) (*service.ReceiptLink, error)
	Receipt(ctx context.Context, token string) ([]byte, string, error)
}

// PaymentHandler drives payment form sessions, their status stream and receipts.
type PaymentHandler struct {
	service      paymentService
	upgrader     websocket.Upgrader
	receiptsPath string
	logger       *zap.Logger
}

// NewPaymentHandler builds a new handler. receiptsPath is the public path receipts are served under.
func NewPaymentHandler(service paymentService, allowedOrigins []string, receiptsPath string, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{
		service:      service,
		upgrader:     realtime.NewUpgrader(allowedOrigins),
		receiptsPath: strings.TrimRight(receiptsPath, "/"),
		logger:       logger,
	}
}

// Create godoc
// @Summary Open a payment
// @Description Starts a payment session, optionally with a course handed over from a listing.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.CreatePaymentRequest false "Course handoff"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if req.CourseID == "" {
		req.CourseID = c.Query("course")
	}
	view, err := h.service.Create(c.Request.Context(), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Get godoc
// @Summary Read a payment with its order summary
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SelectCourse godoc
// @Summary Choose the course to pay for
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SelectCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /payments/{id}/course [put]
func (h *PaymentHandler) SelectCourse(c *gin.Context) {
	var req dto.SelectCourseRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.SelectCourse(c.Request.Context(), c.Param("id"), req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SetMethod godoc
// @Summary Switch between card and UPI
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SetMethodRequest true "Method"
// @Success 200 {object} response.Envelope
// @Router /payments/{id}/method [put]
func (h *PaymentHandler) SetMethod(c *gin.Context) {
	var req dto.SetMethodRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.SetMethod(c.Request.Context(), c.Param("id"), models.PaymentMethod(req.Method))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SetField godoc
// @Summary Update a payment field
// @Description Card number, expiry and CVV are formatted; over-long input is ignored and reported as not accepted.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.SetFieldRequest true "Field update"
// @Success 200 {object} response.Envelope
// @Router /payments/{id}/fields [patch]
func (h *PaymentHandler) SetField(c *gin.Context) {
	var req dto.SetFieldRequest
	if err := validator.Bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	view, accepted, err := h.service.SetField(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.PaymentFieldResponse{Accepted: accepted, Payment: view})
}

// Submit godoc
// @Summary Submit a payment
// @Description Responds 202 while the payment is processing; 422 with field errors when invalid.
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /payments/{id}/submit [post]
func (h *PaymentHandler) Submit(c *gin.Context) {
	view, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if view != nil {
			response.ErrorWithData(c, err, view)
			return
		}
		response.Error(c, err)
		return
	}
	response.Accepted(c, view)
}

// PayWithApp godoc
// @Summary Pay through a UPI app
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Param app path string true "googlepay, phonepe or paytm"
// @Success 202 {object} response.Envelope
// @Router /payments/{id}/upi-apps/{app} [post]
func (h *PaymentHandler) PayWithApp(c *gin.Context) {
	view, err := h.service.PayWithApp(c.Request.Context(), c.Param("id"), c.Param("app"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, view)
}

// Cancel godoc
// @Summary Cancel a processing payment
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	view, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Reset godoc
// @Summary Reset a payment
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /payments/{id}/reset [post]
func (h *PaymentHandler) Reset(c *gin.Context) {
	view, err := h.service.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Stream godoc
// @Summary Payment status stream
// @Description Upgrades to a WebSocket that sends a snapshot followed by every state change.
// @Tags Payments
// @Param id path string true "Session ID"
// @Router /payments/{id}/stream [get]
func (h *PaymentHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	sub, view, err := h.service.Subscribe(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Cancel()
		h.logger.Warn("payment stream upgrade failed", zap.String("session_id", id), zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug("payment stream opened", zap.String("session_id", id))
	realtime.Stream(conn, sub, realtime.Event{Type: service.PaymentEventSnapshot, Data: view}, nil, h.logger)
}

// ReceiptLink godoc
// @Summary Signed receipt link
// @Tags Payments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments/{id}/receipt [get]
func (h *PaymentHandler) ReceiptLink(c *gin.Context) {
	link, err := h.service.ReceiptLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ReceiptLinkResponse{
		URL:       h.receiptsPath + "/" + link.Token,
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags Payments
// @Produce application/pdf
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /receipts/{token} [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	out, filename, err := h.service.Receipt(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", out)
}
