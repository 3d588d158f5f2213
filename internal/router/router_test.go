package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dsa-enrollment-api/internal/handler"
	"github.com/noah-isme/dsa-enrollment-api/internal/models"
	"github.com/noah-isme/dsa-enrollment-api/internal/realtime"
	"github.com/noah-isme/dsa-enrollment-api/internal/repository"
	"github.com/noah-isme/dsa-enrollment-api/internal/service"
	"github.com/noah-isme/dsa-enrollment-api/pkg/config"
	"github.com/noah-isme/dsa-enrollment-api/pkg/export"
	"github.com/noah-isme/dsa-enrollment-api/pkg/jobs"
	"github.com/noah-isme/dsa-enrollment-api/pkg/storage"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type session struct {
	ID            string            `json:"id"`
	Phase         string            `json:"phase"`
	Errors        map[string]string `json:"errors"`
	ApplicationID string            `json:"application_id"`
	TransactionID string            `json:"transaction_id"`
	AmountPaid    int64             `json:"amount_paid"`
	OrderSummary  *struct {
		Total int64 `json:"total"`
	} `json:"order_summary"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{Env: "test", APIPrefix: "/api/v1", Metrics: config.MetricsConfig{Enabled: true}}

	metrics := service.NewMetricsService()
	catalogRepo := repository.NewStaticCatalogRepository()
	sessions := repository.NewMemorySessionRepository(time.Hour)
	hub := realtime.NewHub(nil)
	scheduler := jobs.NewScheduler("payments-test", jobs.SchedulerConfig{})
	scheduler.Start(context.Background())
	t.Cleanup(func() {
		scheduler.Stop()
		hub.Close()
	})

	catalog := service.NewCatalogService(catalogRepo, nil, metrics, nil)
	content := service.NewContentService(repository.NewContentRepository(), catalog, nil)
	schedule := service.NewScheduleService(catalogRepo, export.NewCSVExporter(), nil)
	applications := service.NewApplicationService(sessions, nil, metrics, nil)
	payments := service.NewPaymentService(sessions, catalog, scheduler, hub,
		storage.NewSignedURLSigner("router-test", time.Minute), nil, metrics,
		service.PaymentServiceConfig{CardDelay: 30 * time.Millisecond, UPIAppDelay: 20 * time.Millisecond}, nil)

	return Setup(cfg, &Handlers{
		Metrics:      handler.NewMetricsHandler(metrics, map[string]handler.Probe{"catalog": func(context.Context) error { return nil }}),
		Content:      handler.NewContentHandler(content),
		Courses:      handler.NewCourseHandler(catalog),
		Schedule:     handler.NewScheduleHandler(schedule),
		Applications: handler.NewApplicationHandler(applications, content),
		Payments:     handler.NewPaymentHandler(payments, nil, ReceiptsPath(cfg), nil),
	}, metrics, nil)
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, dst))
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"catalog":"ok"`)

	rec, _ = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCatalogRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/navigation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "/training-schedule")

	rec, env = do(t, r, http.MethodGet, "/api/v1/courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 6, env.Meta["total"])

	rec, env = do(t, r, http.MethodGet, "/api/v1/courses/iso/order-summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Tax   int64 `json:"tax"`
		Total int64 `json:"total"`
	}
	decode(t, env.Data, &summary)
	assert.Equal(t, int64(6300), summary.Tax)
	assert.Equal(t, int64(41300), summary.Total)

	rec, env = do(t, r, http.MethodGet, "/api/v1/courses/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/v1/pages/certification", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/training-schedule?status=ongoing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, env.Meta["total"])

	rec, env = do(t, r, http.MethodGet, "/api/v1/training-schedule?search=AMIT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, env.Meta["total"])

	rec, env = do(t, r, http.MethodGet, "/api/v1/training-schedule?status=paused", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/v1/training-schedule/export.csv?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "FSS-2024-04")
}

func TestApplicationRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/applications/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var options models.ApplicationOptions
	decode(t, env.Data, &options)
	require.NotEmpty(t, options.Batches)
	assert.Equal(t, "weekend", options.Batches[len(options.Batches)-1].Value)
	assert.Equal(t, "Weekend Batch (Saturday & Sunday)", options.Batches[len(options.Batches)-1].Label)

	rec, env = do(t, r, http.MethodPost, "/api/v1/applications", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var app session
	decode(t, env.Data, &app)
	base := "/api/v1/applications/" + app.ID

	rec, env = do(t, r, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "FORM_INVALID", env.Error.Code)
	decode(t, env.Data, &app)
	assert.Equal(t, "First name is required", app.Errors["firstName"])

	rec, env = do(t, r, http.MethodPatch, base+"/fields", map[string]string{"value": "Asha"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Error.Details), "field is a required field")

	rec, env = do(t, r, http.MethodPatch, base+"/fields", map[string]string{"field": "nickname", "value": "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNKNOWN_FIELD", env.Error.Code)

	fields := map[string]string{
		"firstName": "Asha", "lastName": "Rao", "email": "asha@example.com", "phone": "9876543210",
		"address": "12 Ring Road", "city": "New Delhi", "state": "Delhi", "pincode": "110001",
		"dateOfBirth": "1995-04-12", "gender": "female", "qualification": "B.Tech",
		"course": "Construction Safety", "batch": "weekend", "emergencyContact": "Ravi Rao",
		"emergencyPhone": "9811111111",
	}
	for field, value := range fields {
		rec, _ = do(t, r, http.MethodPatch, base+"/fields", map[string]string{"field": field, "value": value})
		require.Equal(t, http.StatusOK, rec.Code, field)
	}

	rec, env = do(t, r, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, env.Data, &app)
	assert.Equal(t, "submitted", app.Phase)
	assert.Regexp(t, `^DSA-\d{6}$`, app.ApplicationID)

	rec, _ = do(t, r, http.MethodGet, base+"/acknowledgement.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestPaymentRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/payments", map[string]string{"course_id": "iso"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var payment session
	decode(t, env.Data, &payment)
	require.NotNil(t, payment.OrderSummary)
	assert.Equal(t, int64(41300), payment.OrderSummary.Total)
	base := "/api/v1/payments/" + payment.ID

	rec, _ = do(t, r, http.MethodPut, base+"/method", map[string]string{"method": "cash"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, r, http.MethodPatch, base+"/fields", map[string]string{"field": "cvv", "value": "12345"})
	require.Equal(t, http.StatusOK, rec.Code)
	var field struct {
		Accepted bool `json:"accepted"`
	}
	decode(t, env.Data, &field)
	assert.False(t, field.Accepted)

	rec, env = do(t, r, http.MethodPatch, base+"/fields", map[string]string{"field": "cardNumber", "value": "4111111111111234"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"cardNumber":"**** **** **** 1234"`)
	assert.NotContains(t, string(env.Data), "4111 1111")

	rec, _ = do(t, r, http.MethodPost, base+"/upi-apps/paytm", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		_, env := do(t, r, http.MethodGet, base, nil)
		var current session
		decode(t, env.Data, &current)
		return current.Phase == "submitted"
	}, 2*time.Second, 10*time.Millisecond)

	rec, env = do(t, r, http.MethodGet, base+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var link struct {
		URL string `json:"url"`
	}
	decode(t, env.Data, &link)
	require.True(t, strings.HasPrefix(link.URL, "/api/v1/receipts/"))

	rec, _ = do(t, r, http.MethodGet, link.URL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, env = do(t, r, http.MethodGet, "/api/v1/receipts/forged.token.value.sig", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "LINK_INVALID", env.Error.Code)
}

func TestPaymentSubmitWithoutCourse(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/payments", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var payment session
	decode(t, env.Data, &payment)

	rec, env = do(t, r, http.MethodPost, "/api/v1/payments/"+payment.ID+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "COURSE_NOT_SELECTED", env.Error.Code)
}

func TestPaymentStream(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/payments", "application/json", strings.NewReader(`{"course_id":"fss"}`))
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	resp.Body.Close()
	var payment session
	decode(t, env.Data, &payment)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/payments/" + payment.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var event struct {
		Type string  `json:"type"`
		Data session `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.PaymentEventSnapshot, event.Type)
	assert.Equal(t, "editing", event.Data.Phase)

	resp, err = http.Post(server.URL+"/api/v1/payments/"+payment.ID+"/upi-apps/googlepay", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.PaymentEventProcessing, event.Type)
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, service.PaymentEventSubmitted, event.Type)
	assert.Equal(t, int64(23600), event.Data.AmountPaid)
}
