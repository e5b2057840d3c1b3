package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusTeapot, map[string]string{"hello": "world"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
	})

	t.Run("nil data writes no body", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusOK, nil)

		require.NoError(t, err)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteOK(w, map[string]string{"id": "org_9"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter) error
		wantStatus int
		wantError  string
	}{
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter) error { return WriteBadRequest(w, "nope", nil) },
			wantStatus: http.StatusBadRequest,
			wantError:  "bad_request",
		},
		{
			name:       "unauthorized",
			write:      func(w http.ResponseWriter) error { return WriteUnauthorized(w, "") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "forbidden",
			write:      func(w http.ResponseWriter) error { return WriteForbidden(w, "") },
			wantStatus: http.StatusForbidden,
			wantError:  "forbidden",
		},
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) error { return WriteNotFound(w, "") },
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "conflict",
			write:      func(w http.ResponseWriter) error { return WriteConflict(w, "exists", nil) },
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
		{
			name:       "bad gateway",
			write:      func(w http.ResponseWriter) error { return WriteBadGateway(w, "") },
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
		},
		{
			name:       "internal error",
			write:      func(w http.ResponseWriter) error { return WriteInternalServerError(w, "") },
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			require.NoError(t, tt.write(w))
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	WriteNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
