package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casuskim/casus/internal/api/apierr"
	"github.com/casuskim/casus/internal/api/response"
	"github.com/casuskim/casus/internal/dependencies/mocks"
	"github.com/casuskim/casus/internal/factory"
	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/protocol"
)

func newTestApp(t *testing.T) *factory.TestApp {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestWords())
	app.Start(context.Background())
	t.Cleanup(app.Stop)
	return app
}

func request(app *factory.TestApp, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	app.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/api/v1/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Zero(t, health.Rooms)
}

func TestCategories(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/api/v1/categories")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.Categories](t, rr)
	assert.Equal(t, "Hayvanlar", resp.Default)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, response.Category{Name: "Hayvanlar", WordCount: 3, IsDefault: true}, resp.Categories[0])
}

func TestCategoriesBeforeLoad(t *testing.T) {
	app := factory.NewTestApp()
	app.Start(context.Background())
	t.Cleanup(app.Stop)

	rr := request(app, http.MethodGet, "/api/v1/categories")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apierr.CodeNoCategories, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestGetRoom(t *testing.T) {
	app := newTestApp(t)
	app.MockIdentity.Queue("host")
	ch := mocks.NewMockChannel("ch-host")

	data, err := protocol.Encode(protocol.CreateRoom{PlayerName: "Ayşe"})
	require.NoError(t, err)
	require.NoError(t, app.Hub.Submit(ch, data))

	require.Eventually(t, func() bool {
		_, ok := ch.Last(protocol.TypeRoomCreated)
		return ok
	}, time.Second, 10*time.Millisecond)

	rr := request(app, http.MethodGet, "/api/v1/rooms/100000")

	assert.Equal(t, http.StatusOK, rr.Code)
	room := decode[response.Room](t, rr)
	assert.Equal(t, "100000", room.Code)
	assert.Equal(t, string(model.PhaseWaiting), room.Phase)
	assert.Equal(t, "host", room.HostID)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
	assert.Nil(t, room.Category)
	assert.NotContains(t, rr.Body.String(), "spies")
}

func TestGetRoomNotFound(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/api/v1/rooms/123456")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRoomNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestRoomCodeMustBeSixDigits(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/api/v1/rooms/abc")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistory(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.Storage.SaveGameSummary(context.Background(), &model.GameSummary{
		ID:       "g1",
		RoomCode: "123456",
		Category: "Hayvanlar",
		Word:     "Fil",
		Winner:   model.SideSpies,
	}))

	rr := request(app, http.MethodGet, "/api/v1/rooms/123456/history?limit=5")

	assert.Equal(t, http.StatusOK, rr.Code)
	history := decode[response.History](t, rr)
	assert.Equal(t, "123456", history.RoomCode)
	require.Len(t, history.Games, 1)
	assert.Equal(t, "spies", history.Games[0].Winner)
}

func TestHistoryEmpty(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/api/v1/rooms/654321/history")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.History](t, rr).Games)
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	app := newTestApp(t)

	for _, limit := range []string{"0", "-3", "many", "1000"} {
		rr := request(app, http.MethodGet, "/api/v1/rooms/123456/history?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rr.Code, limit)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)

	rr := request(app, http.MethodGet, "/ws")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
