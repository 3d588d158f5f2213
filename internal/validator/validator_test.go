package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/dsa-enrollment-api/pkg/errors"
)

type methodRequest struct {
	Method string `json:"method" validate:"required,oneof=card upi"`
}

type searchQuery struct {
	Search string `form:"search" validate:"max=5"`
}

func testContext(method, target, body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

func TestBindTranslatesFieldErrors(t *testing.T) {
	var req methodRequest
	err := Bind(testContext(http.MethodPut, "/", `{"method":"cash"}`), &req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	fields, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "method must be one of [card upi]", fields["method"])
}

func TestBindAcceptsValidBody(t *testing.T) {
	var req methodRequest
	require.NoError(t, Bind(testContext(http.MethodPut, "/", `{"method":"upi"}`), &req))
	assert.Equal(t, "upi", req.Method)
}

func TestBindEmptyBodyIsValidatedAsZeroValue(t *testing.T) {
	var req methodRequest
	err := Bind(testContext(http.MethodPut, "/", ""), &req)
	require.Error(t, err)
	fields := appErrors.FromError(err).Details.(map[string]string)
	assert.Equal(t, "method is a required field", fields["method"])
}

func TestBindMalformedJSON(t *testing.T) {
	var req methodRequest
	err := Bind(testContext(http.MethodPut, "/", `{"method":`), &req)
	require.Error(t, err)
	fields := appErrors.FromError(err).Details.(map[string]string)
	assert.Contains(t, fields, "detail")
}

func TestBindQuery(t *testing.T) {
	var q searchQuery
	require.NoError(t, BindQuery(testContext(http.MethodGet, "/?search=amit", ""), &q))
	assert.Equal(t, "amit", q.Search)

	err := BindQuery(testContext(http.MethodGet, "/?search=too-long", ""), &q)
	require.Error(t, err)
	fields := appErrors.FromError(err).Details.(map[string]string)
	assert.Equal(t, "search must be a maximum of 5 characters in length", fields["search"])
}
