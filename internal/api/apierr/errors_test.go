package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casuskim/casus/internal/hub"
	"github.com/casuskim/casus/internal/model"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"room not found", model.ErrRoomNotFound, http.StatusNotFound},
		{"wrapped room not found", fmt.Errorf("lookup: %w", model.ErrRoomNotFound), http.StatusNotFound},
		{"no categories", model.ErrNoCategories, http.StatusServiceUnavailable},
		{"hub stopped", hub.ErrStopped, http.StatusServiceUnavailable},
		{"invalid request", NewInvalidRequestError("bad limit"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, model.ErrRoomNotFound)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeRoomNotFound, resp.Error.Code)
}
