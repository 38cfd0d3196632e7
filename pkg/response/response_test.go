package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return body
}

func TestItem(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Item(c, "blog", map[string]string{"title": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := parseBody(t, w)
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
	blog, ok := body["blog"].(map[string]interface{})
	if !ok || blog["title"] != "test" {
		t.Errorf("expected blog object in envelope, got %v", body["blog"])
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, "contact", map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	body := parseBody(t, w)
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
}

func TestList(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		List(c, "leads", []string{"a", "b"}, Pagination{Total: 12, Page: 2, Limit: 5, TotalPages: 3})
	})

	body := parseBody(t, w)
	for _, key := range []string{"success", "leads", "total", "page", "limit", "totalPages"} {
		if _, ok := body[key]; !ok {
			t.Errorf("list envelope missing %q", key)
		}
	}
	if body["totalPages"] != float64(3) {
		t.Errorf("totalPages = %v, expected 3", body["totalPages"])
	}
	if items, _ := body["leads"].([]interface{}); len(items) != 2 {
		t.Errorf("expected 2 items, got %v", body["leads"])
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		status  int
		message string
	}{
		{"bad request", func(c *gin.Context) { BadRequest(c, "invalid input") }, http.StatusBadRequest, "invalid input"},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "token required") }, http.StatusUnauthorized, "token required"},
		{"not found", func(c *gin.Context) { NotFound(c, "page not found") }, http.StatusNotFound, "page not found"},
		{"conflict", func(c *gin.Context) { Conflict(c, "slug taken") }, http.StatusConflict, "slug taken"},
		{"server error", func(c *gin.Context) { ServerError(c, "boom") }, http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(tt.handler)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			body := parseBody(t, w)
			if body["success"] != false {
				t.Errorf("expected success false, got %v", body["success"])
			}
			if body["message"] != tt.message {
				t.Errorf("message = %v, expected %q", body["message"], tt.message)
			}
		})
	}
}

func TestError_AppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", NewBadRequest("bad"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no"), http.StatusUnauthorized},
		{"not found", NewNotFound("missing"), http.StatusNotFound},
		{"conflict", NewConflict("dup"), http.StatusConflict},
		{"server", NewServerError("failed", errors.New("db down")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NewNotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) { Error(c, tt.err) })
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			if StatusOf(tt.err) != tt.status {
				t.Errorf("StatusOf = %d, expected %d", StatusOf(tt.err), tt.status)
			}
		})
	}
}

func TestError_ServerErrorHidesCause(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, NewServerError("failed to save", errors.New("pq: connection refused")))
	})

	body := parseBody(t, w)
	if body["message"] != "failed to save" {
		t.Errorf("message = %v, expected %q", body["message"], "failed to save")
	}
}

func TestError_PlainError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("unexpected"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestError_PlainErrorReleaseMode(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("sql: secret detail"))
	})

	body := parseBody(t, w)
	if body["message"] != "internal server error" {
		t.Errorf("release mode should hide internals, got %v", body["message"])
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewServerError("wrapped", cause)
	if !errors.Is(err, cause) {
		t.Error("AppError should unwrap to its cause")
	}
}

func TestMessageAndSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Message(c, "deleted")
	})
	body := parseBody(t, w)
	if body["message"] != "deleted" || body["success"] != true {
		t.Errorf("unexpected body %v", body)
	}

	w = performRequest(func(c *gin.Context) {
		Success(c, gin.H{"valid": true})
	})
	body = parseBody(t, w)
	if body["valid"] != true || body["success"] != true {
		t.Errorf("unexpected body %v", body)
	}
}
