package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/idlesession/core/response"
)

func TestJSONWithStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   any
		status int
		want   int
		body   string
	}{
		{"explicit status", map[string]string{"a": "b"}, http.StatusCreated, http.StatusCreated, "{\"a\":\"b\"}\n"},
		{"zero status with data", []int{1}, 0, http.StatusOK, "[1]\n"},
		{"zero status without data", nil, 0, http.StatusNoContent, ""},
		{"no content drops body", map[string]int{"x": 1}, http.StatusNoContent, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			response.Render(w, r, response.JSONWithStatus(tt.data, tt.status))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	response.Render(w, httptest.NewRequest(http.MethodPost, "/", nil), response.NoContent())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandler(t *testing.T) {
	t.Parallel()

	h := response.Handler(func(r *http.Request) response.Response {
		if r.URL.Query().Get("fail") != "" {
			return response.Error(errors.New("boom"))
		}
		return response.JSON(map[string]string{"path": r.URL.Path})
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"path":"/ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ok?fail=1", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_server_error")
}
