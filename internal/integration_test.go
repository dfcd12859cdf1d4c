package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"training-portal-backend/config"
	"training-portal-backend/internal/api"
	"training-portal-backend/internal/db"
	"training-portal-backend/internal/model"
	"training-portal-backend/internal/store"
)

// TestRequestLifecycle walks a training request through its whole life: a
// high-priority client requests a slot already held by a lower-priority
// client, the request is approved displacing the incumbent, and the sweeper
// later advances the approved booking through in-progress to completed.
func TestRequestLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	appStore := store.NewGormStore(testDB)
	cfg := &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}
	router := api.NewRouter(appStore, nil, &webpush.Options{VAPIDPublicKey: "test-key"}, cfg)

	post := func(url string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		json.NewEncoder(&buf).Encode(body)
		req, _ := http.NewRequest("POST", url, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 2. Register the trainer and the two clients through the API.
	w := post("/api/trainers", gin.H{"name": "Dana", "email": "dana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var trainer model.Trainer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trainer))

	w = post("/api/clients", gin.H{"name": "Avery", "email": "avery@example.com", "priorityScore": 80})
	require.Equal(t, http.StatusCreated, w.Code)
	var highClient model.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &highClient))

	w = post("/api/clients", gin.H{"name": "Billie", "email": "billie@example.com", "priorityScore": 50})
	require.Equal(t, http.StatusCreated, w.Code)
	var lowClient model.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lowClient))

	// 3. The low-priority client holds the morning slot.
	ctx := context.Background()
	existing := model.Booking{
		Title: "Strength basics", Date: "2026-09-01",
		StartTime: "10:00", EndTime: "11:00",
		TrainerID: &trainer.ID, ClientID: lowClient.ID, Status: model.StatusApproved,
	}
	require.NoError(t, appStore.CreateBooking(ctx, &existing))

	// 4. The high-priority client requests an overlapping slot. The preview
	// must flag the clash and predict the requester winning.
	w = post("/api/requests", gin.H{
		"title":     "Sprint coaching",
		"date":      "2026-09-01",
		"startTime": "10:30",
		"endTime":   "11:30",
		"trainerId": trainer.ID,
		"clientId":  highClient.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Request   model.Booking   `json:"request"`
		Conflicts []model.Booking `json:"conflicts"`
		Resolution struct {
			Winner string `json:"winner"`
		} `json:"resolution"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	require.Len(t, createResp.Conflicts, 1)
	assert.Equal(t, "new", createResp.Resolution.Winner)

	// 5. Approval displaces the incumbent and notifies everyone involved.
	w = post("/api/requests/"+createResp.Request.ID+"/approve", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)

	approved, err := appStore.GetBooking(ctx, createResp.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAdminApproved, approved.Status)

	displaced, err := appStore.GetBooking(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRescheduled, displaced.Status)

	lowFeed, err := appStore.ListNotifications(ctx, lowClient.ID)
	require.NoError(t, err)
	require.Len(t, lowFeed, 1)
	assert.Equal(t, model.NotifyWarning, lowFeed[0].Type)

	highFeed, err := appStore.ListNotifications(ctx, highClient.ID)
	require.NoError(t, err)
	require.Len(t, highFeed, 1)
	assert.Equal(t, model.NotifySuccess, highFeed[0].Type)

	// 6. The sweeper advances the booking once its slot starts, then ends.
	midSession := time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC)
	started, completed, err := appStore.SweepStatuses(ctx, midSession, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{approved.ID}, started)
	assert.Empty(t, completed)

	afterSession := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	started, completed, err = appStore.SweepStatuses(ctx, afterSession, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, started)
	assert.Equal(t, []string{approved.ID}, completed)

	finished, err := appStore.GetBooking(ctx, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, finished.Status)
}
