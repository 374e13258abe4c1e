package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequest represents a test HTTP request. A []byte Body is sent as is;
// anything else is JSON encoded.
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
	Cookies []*http.Cookie
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
	Raw        []byte
	Header     http.Header
	Cookies    []*http.Cookie
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router *gin.Engine, req TestRequest) TestResponse {
	t.Helper()

	var body []byte
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = b
	default:
		var err error
		body, err = json.Marshal(b)
		require.NoError(t, err, "failed to marshal request body")
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewReader(body))
	require.NoError(t, err, "failed to create request")

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	for _, cookie := range req.Cookies {
		httpReq.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	resp := TestResponse{
		StatusCode: w.Code,
		Raw:        w.Body.Bytes(),
		Header:     w.Header(),
		Cookies:    w.Result().Cookies(),
	}
	if w.Body.Len() > 0 && gin.MIMEJSON == contentType(w.Header()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Body), "failed to unmarshal response body")
	}
	return resp
}

// AssertResponse asserts the status code and, when given, the response envelope
func AssertResponse(t *testing.T, response TestResponse, expectedStatusCode int, expectedBody map[string]interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatusCode, response.StatusCode)
	if expectedBody != nil {
		assert.Equal(t, expectedBody, response.Body)
	}
}

// AssertErrorResponse checks the error envelope
func AssertErrorResponse(t *testing.T, response TestResponse, expectedStatusCode int, expectedError string) {
	t.Helper()
	AssertResponse(t, response, expectedStatusCode, map[string]interface{}{
		"status":  "error",
		"message": expectedError,
		"error":   expectedError,
	})
}

func contentType(h http.Header) string {
	ct := h.Get("Content-Type")
	for i, ch := range ct {
		if ch == ';' {
			return ct[:i]
		}
	}
	return ct
}
