package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"training-portal-backend/internal/db"
	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
)

// newTestStore opens a per-test in-memory SQLite database with the full
// schema migrated.
func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB), gormDB
}

func strPtr(s string) *string { return &s }

func seedUsers(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.CreateTrainer(ctx, &model.Trainer{ID: "trainer-1", Name: "Dana", Email: "dana@example.com"}))
	require.NoError(t, s.CreateClient(ctx, &model.Client{ID: "client-high", Name: "Avery", Email: "avery@example.com", PriorityScore: 80}))
	require.NoError(t, s.CreateClient(ctx, &model.Client{ID: "client-low", Name: "Billie", Email: "billie@example.com", PriorityScore: 50}))
}

func TestClientPriorities(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)

	priorities, err := s.ClientPriorities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"client-high": 80, "client-low": 50}, priorities)
}

func TestApplyResolution(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)
	ctx := context.Background()

	existing := model.Booking{
		ID: "booking-low", Title: "Strength basics", Date: "2026-09-01",
		StartTime: "10:00", EndTime: "11:00",
		TrainerID: strPtr("trainer-1"), ClientID: "client-low", Status: model.StatusApproved,
	}
	require.NoError(t, s.CreateBooking(ctx, &existing))

	request := model.Booking{
		ID: "request-high", Title: "Sprint coaching", Date: "2026-09-01",
		StartTime: "10:30", EndTime: "11:30",
		TrainerID: strPtr("trainer-1"), ClientID: "client-high", Status: model.StatusPending,
	}
	require.NoError(t, s.CreateBooking(ctx, &request))

	res := schedule.Resolution{
		Winner:   schedule.WinnerNew,
		Request:  schedule.Request{ClientID: "client-high", TimeSlot: schedule.TimeSlot{Date: "2026-09-01", StartTime: "10:30", EndTime: "11:30"}},
		Affected: []model.Booking{existing},
		Reason:   "Higher priority client (80 vs 50)",
	}

	notifyIDs, err := s.ApplyResolution(ctx, request.ID, res, model.StatusAdminApproved)
	require.NoError(t, err)
	// One for the displaced client, one for the requester, one for the trainer.
	assert.Len(t, notifyIDs, 3)

	approved, err := s.GetBooking(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAdminApproved, approved.Status)

	displaced, err := s.GetBooking(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRescheduled, displaced.Status)

	lowFeed, err := s.ListNotifications(ctx, "client-low")
	require.NoError(t, err)
	require.Len(t, lowFeed, 1)
	assert.Equal(t, model.NotifyWarning, lowFeed[0].Type)
	assert.Contains(t, lowFeed[0].Message, "rescheduled due to higher priority client")

	highFeed, err := s.ListNotifications(ctx, "client-high")
	require.NoError(t, err)
	require.Len(t, highFeed, 1)
	assert.Equal(t, model.NotifySuccess, highFeed[0].Type)

	trainerFeed, err := s.ListNotifications(ctx, "trainer-1")
	require.NoError(t, err)
	require.Len(t, trainerFeed, 1)
	assert.Equal(t, model.NotifyInfo, trainerFeed[0].Type)
}

func TestApplyResolutionStale(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)
	ctx := context.Background()

	request := model.Booking{
		ID: "request-1", Title: "Mobility", Date: "2026-09-01",
		StartTime: "10:00", EndTime: "11:00",
		TrainerID: strPtr("trainer-1"), ClientID: "client-high", Status: model.StatusPending,
	}
	require.NoError(t, s.CreateBooking(ctx, &request))

	// A booking committed after the resolution was computed.
	sneaked := model.Booking{
		ID: "booking-sneaked", Title: "Intervals", Date: "2026-09-01",
		StartTime: "10:30", EndTime: "11:30",
		TrainerID: strPtr("trainer-1"), ClientID: "client-low", Status: model.StatusApproved,
	}
	require.NoError(t, s.CreateBooking(ctx, &sneaked))

	res := schedule.Resolution{
		Winner:  schedule.WinnerNew,
		Request: schedule.Request{ClientID: "client-high", TimeSlot: schedule.TimeSlot{Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"}},
		Reason:  "No conflicts",
	}

	_, err := s.ApplyResolution(ctx, request.ID, res, model.StatusAdminApproved)
	assert.ErrorIs(t, err, ErrStaleResolution)

	// The request must be untouched.
	got, err := s.GetBooking(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestApplyResolutionWinnerExisting(t *testing.T) {
	s, _ := newTestStore(t)

	res := schedule.Resolution{Winner: schedule.WinnerExisting}
	_, err := s.ApplyResolution(context.Background(), "whatever", res, model.StatusAdminApproved)
	assert.Error(t, err)
}

func TestRejectRequest(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)
	ctx := context.Background()

	request := model.Booking{
		ID: "request-1", Title: "Yoga", Date: "2026-09-01",
		StartTime: "10:00", EndTime: "11:00",
		TrainerID: strPtr("trainer-1"), ClientID: "client-low", Status: model.StatusPending,
	}
	require.NoError(t, s.CreateBooking(ctx, &request))

	notifyIDs, err := s.RejectRequest(ctx, request.ID, "")
	require.NoError(t, err)
	assert.Len(t, notifyIDs, 1)

	got, err := s.GetBooking(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)

	feed, err := s.ListNotifications(ctx, "client-low")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Your training request was rejected due to scheduling conflict.", feed[0].Message)
}

func TestSweepStatuses(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)
	ctx := context.Background()

	mk := func(id, date, start, end string, status model.BookingStatus) {
		b := model.Booking{
			ID: id, Title: id, Date: date, StartTime: start, EndTime: end,
			TrainerID: strPtr("trainer-1"), ClientID: "client-low", Status: status,
		}
		require.NoError(t, s.CreateBooking(ctx, &b))
	}

	// Sweep frozen at 2026-09-01 10:30 UTC.
	loc := time.UTC
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, loc)

	mk("ended", "2026-09-01", "08:00", "09:00", model.StatusInProgress)
	mk("running", "2026-09-01", "10:00", "11:00", model.StatusApproved)
	mk("upcoming", "2026-09-01", "14:00", "15:00", model.StatusAdminApproved)
	mk("pending", "2026-09-01", "10:00", "11:00", model.StatusPending)
	mk("garbled", "2026-09-01", "bad", "worse", model.StatusApproved)

	started, completed, err := s.SweepStatuses(ctx, now, loc)
	require.NoError(t, err)
	assert.Equal(t, []string{"running"}, started)
	assert.Equal(t, []string{"ended"}, completed)

	for id, want := range map[string]model.BookingStatus{
		"ended":    model.StatusCompleted,
		"running":  model.StatusInProgress,
		"upcoming": model.StatusAdminApproved,
		"pending":  model.StatusPending,
		"garbled":  model.StatusApproved,
	} {
		got, err := s.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "booking %s", id)
	}
}

func TestUpsertSubscription(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sub := model.PushSubscription{Endpoint: "https://push.example/abc", P256DH: "key1", Auth: "auth1", UserID: "client-low"}
	require.NoError(t, s.UpsertSubscription(ctx, &sub))

	// Replacing the same endpoint updates keys in place.
	sub2 := model.PushSubscription{Endpoint: "https://push.example/abc", P256DH: "key2", Auth: "auth2", UserID: "client-low"}
	require.NoError(t, s.UpsertSubscription(ctx, &sub2))

	got, err := s.GetSubscription(ctx, "https://push.example/abc")
	require.NoError(t, err)
	assert.Equal(t, "key2", got.P256DH)
	assert.Equal(t, "auth2", got.Auth)
}

func TestListBookingsFilter(t *testing.T) {
	s, _ := newTestStore(t)
	seedUsers(t, s)
	ctx := context.Background()

	b1 := model.Booking{ID: "b1", Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00", TrainerID: strPtr("trainer-1"), ClientID: "client-low", Status: model.StatusApproved}
	b2 := model.Booking{ID: "b2", Date: "2026-09-01", StartTime: "12:00", EndTime: "13:00", ClientID: "client-high", Status: model.StatusPending}
	require.NoError(t, s.CreateBooking(ctx, &b1))
	require.NoError(t, s.CreateBooking(ctx, &b2))

	byTrainer, err := s.ListBookings(ctx, BookingFilter{TrainerID: "trainer-1"})
	require.NoError(t, err)
	require.Len(t, byTrainer, 1)
	assert.Equal(t, "b1", byTrainer[0].ID)

	byStatus, err := s.ListBookings(ctx, BookingFilter{Status: model.StatusPending})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "b2", byStatus[0].ID)

	all, err := s.ListBookings(ctx, BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.UpdateBookingStatus(context.Background(), "missing", model.StatusCancelled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
