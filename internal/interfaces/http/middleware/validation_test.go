package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createSampleRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Priority string `json:"priority" binding:"omitempty,oneof=low medium high critical"`
}

func bindSample(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var bindErr error
	router := gin.New()
	router.POST("/sample", func(c *gin.Context) {
		var req createSampleRequest
		bindErr = c.ShouldBindJSON(&req)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/sample", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)
	return bindErr
}

func TestValidationMessageUsesJSONFieldNames(t *testing.T) {
	SetupValidator()

	err := bindSample(t, `{"priority":"urgent"}`)
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "name: this field is required")
	assert.Contains(t, msg, "priority: must be one of: low, medium, high, critical")
	assert.NotContains(t, msg, "Name")
}

func TestValidationMessagePassesThroughNonValidatorErrors(t *testing.T) {
	SetupValidator()

	err := bindSample(t, `{"name": 42}`)
	require.Error(t, err)

	// JSON type mismatches are json errors, not field validation errors
	assert.Equal(t, err.Error(), ValidationMessage(err))
}

func TestValidationMessageLengthBounds(t *testing.T) {
	SetupValidator()

	err := bindSample(t, `{"name":"`+strings.Repeat("a", 201)+`"}`)
	require.Error(t, err)

	assert.Contains(t, ValidationMessage(err), "name: must be at most 200 characters")
}
