package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newResponseRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(), SecurityHeadersMiddleware(), RecoveryMiddleware())
	router.GET("/ok", func(c *gin.Context) { Success(c, "Fine", gin.H{"n": 1}) })
	router.GET("/created", func(c *gin.Context) { Created(c, "Made", nil) })
	router.GET("/app-error", func(c *gin.Context) {
		RespondError(c, NotFoundError(ErrTransactionNotFound, errors.New("record not found")))
	})
	router.GET("/plain-error", func(c *gin.Context) { RespondError(c, errors.New("pq: connection reset")) })
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	return router
}

func TestResponseEnvelopes(t *testing.T) {
	router := newResponseRouter()

	resp := MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/ok"})
	AssertResponse(t, resp, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Fine",
		"data":    map[string]interface{}{"n": float64(1)},
	})

	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/created"})
	AssertResponse(t, resp, http.StatusCreated, map[string]interface{}{"status": "success", "message": "Made"})

	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/app-error"})
	AssertErrorResponse(t, resp, http.StatusNotFound, ErrTransactionNotFound)

	// The cause never reaches the client.
	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/plain-error"})
	AssertErrorResponse(t, resp, http.StatusInternalServerError, ErrInternalServer)
	assert.NotContains(t, string(resp.Raw), "pq:")

	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/panic"})
	AssertErrorResponse(t, resp, http.StatusInternalServerError, ErrInternalServer)
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	router := newResponseRouter()

	resp := MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/ok"})
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/ok", Headers: map[string]string{"X-Request-ID": "req-42"}})
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://shop.example.com"}))
	router.GET("/ok", func(c *gin.Context) { Success(c, "Fine", nil) })

	resp := MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/ok", Headers: map[string]string{"Origin": "https://evil.example.com"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	resp = MakeTestRequest(t, router, TestRequest{Method: http.MethodGet, Path: "/ok", Headers: map[string]string{"Origin": "https://shop.example.com"}})
	assert.Equal(t, "https://shop.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
