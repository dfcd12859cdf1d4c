package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"training-portal-backend/internal/model"
	"training-portal-backend/internal/schedule"
)

// BookingFilter narrows booking listings. Zero values mean "no filter".
type BookingFilter struct {
	TrainerID string
	ClientID  string
	Status    model.BookingStatus
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateTrainer(ctx context.Context, t *model.Trainer) error
	ListTrainers(ctx context.Context) ([]model.Trainer, error)

	CreateClient(ctx context.Context, c *model.Client) error
	ListClients(ctx context.Context) ([]model.Client, error)
	UpdateClientPriority(ctx context.Context, clientID string, score int) error
	// ClientPriorities snapshots clientID -> priorityScore for the resolver.
	ClientPriorities(ctx context.Context) (map[string]int, error)

	CreateBooking(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error
	AssignTrainer(ctx context.Context, bookingID, trainerID string) error

	CreateAvailability(ctx context.Context, w *model.AvailabilityWindow) error
	GetAvailability(ctx context.Context, id string) (model.AvailabilityWindow, error)
	ListAvailability(ctx context.Context, trainerID string) ([]model.AvailabilityWindow, error)
	SaveAvailability(ctx context.Context, w *model.AvailabilityWindow) error
	DeleteAvailability(ctx context.Context, id string) error

	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotification(ctx context.Context, id string) (model.Notification, error)
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	UpsertSubscription(ctx context.Context, s *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error

	// ApplyResolution commits the effects of a winner=new resolution
	// transactionally and returns the IDs of the notifications it wrote, for
	// dispatch to the push worker pool.
	ApplyResolution(ctx context.Context, requestID string, res schedule.Resolution, approveStatus model.BookingStatus) ([]string, error)
	// RejectRequest marks a request rejected and notifies its client.
	RejectRequest(ctx context.Context, requestID, message string) ([]string, error)
	// SweepStatuses advances booking statuses past their wall-clock boundaries.
	SweepStatuses(ctx context.Context, now time.Time, loc *time.Location) (started, completed []string, err error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) CreateTrainer(ctx context.Context, t *model.Trainer) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gormStore) ListTrainers(ctx context.Context) ([]model.Trainer, error) {
	var trainers []model.Trainer
	if err := s.db.WithContext(ctx).Order("created_at").Find(&trainers).Error; err != nil {
		return nil, err
	}
	return trainers, nil
}

func (s *gormStore) CreateClient(ctx context.Context, c *model.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *gormStore) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := s.db.WithContext(ctx).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *gormStore) UpdateClientPriority(ctx context.Context, clientID string, score int) error {
	res := s.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", clientID).Update("priority_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) ClientPriorities(ctx context.Context) (map[string]int, error) {
	type row struct {
		ID            string
		PriorityScore int
	}
	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.Client{}).Select("id, priority_score").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to snapshot client priorities: %w", err)
	}
	priorities := make(map[string]int, len(rows))
	for _, r := range rows {
		priorities[r.ID] = r.PriorityScore
	}
	return priorities, nil
}

func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return b, err
}

func (s *gormStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{}).Order("created_at")
	if f.TrainerID != "" {
		q = q.Where("trainer_id = ?", f.TrainerID)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) AssignTrainer(ctx context.Context, bookingID, trainerID string) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", bookingID).Update("trainer_id", trainerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) CreateAvailability(ctx context.Context, w *model.AvailabilityWindow) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Status == "" {
		w.Status = model.WindowOpen
	}
	return s.db.WithContext(ctx).Create(w).Error
}

func (s *gormStore) GetAvailability(ctx context.Context, id string) (model.AvailabilityWindow, error) {
	var w model.AvailabilityWindow
	err := s.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return w, err
}

func (s *gormStore) ListAvailability(ctx context.Context, trainerID string) ([]model.AvailabilityWindow, error) {
	q := s.db.WithContext(ctx).Model(&model.AvailabilityWindow{}).Order("date, start_time")
	if trainerID != "" {
		q = q.Where("trainer_id = ?", trainerID)
	}
	var windows []model.AvailabilityWindow
	if err := q.Find(&windows).Error; err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *gormStore) SaveAvailability(ctx context.Context, w *model.AvailabilityWindow) error {
	return s.db.WithContext(ctx).Save(w).Error
}

func (s *gormStore) DeleteAvailability(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.AvailabilityWindow{}, "id = ?", id).Error
}

func (s *gormStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *gormStore) GetNotification(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return n, err
}

func (s *gormStore) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *gormStore) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "user_id"}),
	}).Create(sub).Error
}

func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error
	return sub, err
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}
