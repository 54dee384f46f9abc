// Package trips loads and mutates trip graphs: access-checked reads with
// explicit expansion, the deep copy of a trip into another user's account,
// and cascading deletes.
package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound covers both missing trips and trips the caller may not see.
var ErrNotFound = errors.New("trip not found")

// ErrStopNotFound is returned when a stop does not exist in the given trip.
var ErrStopNotFound = errors.New("stop not found")

var (
	ErrTripActivityNotFound = errors.New("trip activity not found")
	ErrExpenseNotFound      = errors.New("expense not found")
)

type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

func orderedStops(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("created_at ASC")
}

func orderedActivities(db *gorm.DB) *gorm.DB {
	return db.Order("scheduled_date ASC").Order("created_at ASC")
}

// preload applies the expansion to a trip query.
func preload(db *gorm.DB, expand Expand) *gorm.DB {
	if expand.Has(ExpandStops) {
		db = db.Preload("Stops", orderedStops).Preload("Stops.City")
	}
	if expand.Has(ExpandActivities) {
		db = db.Preload("Stops.Activities", orderedActivities).Preload("Stops.Activities.Activity")
	}
	if expand.Has(ExpandExpenses) {
		db = db.Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	}
	return db
}

func (s *Store) find(ctx context.Context, db *gorm.DB, id string, expand Expand) (*models.Trip, error) {
	var trip models.Trip
	err := preload(db.WithContext(ctx), expand).First(&trip, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading trip %s: %w", id, err)
	}
	return &trip, nil
}

// GetOwned loads a trip owned by userID.
func (s *Store) GetOwned(ctx context.Context, id, userID string, expand Expand) (*models.Trip, error) {
	trip, err := s.find(ctx, s.db, id, expand)
	if err != nil {
		return nil, err
	}
	if !trip.OwnedBy(userID) {
		return nil, ErrNotFound
	}
	return trip, nil
}

// GetPublic loads a public trip regardless of the viewer.
func (s *Store) GetPublic(ctx context.Context, id string, expand Expand) (*models.Trip, error) {
	return s.GetVisible(ctx, id, "", expand)
}

// GetVisible loads a trip that is public or owned by viewerID. viewerID may
// be empty for anonymous readers.
func (s *Store) GetVisible(ctx context.Context, id, viewerID string, expand Expand) (*models.Trip, error) {
	trip, err := s.find(ctx, s.db, id, expand)
	if err != nil {
		return nil, err
	}
	if !trip.VisibleTo(viewerID) {
		return nil, ErrNotFound
	}
	return trip, nil
}

// List returns the trips of userID, newest first. When includePublic is set
// public trips of other users are listed too.
func (s *Store) List(ctx context.Context, userID string, includePublic bool, expand Expand) ([]models.Trip, error) {
	q := preload(s.db.WithContext(ctx), expand).Order("created_at DESC")
	if includePublic {
		q = q.Where("user_id = ? OR is_public = ?", userID, true)
	} else {
		q = q.Where("user_id = ?", userID)
	}

	var trips []models.Trip
	if err := q.Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	return trips, nil
}

// GetOwnedStop loads a stop of a trip owned by userID.
func (s *Store) GetOwnedStop(ctx context.Context, tripID, stopID, userID string) (*models.Trip, *models.TripStop, error) {
	trip, err := s.GetOwned(ctx, tripID, userID, 0)
	if err != nil {
		return nil, nil, err
	}

	var stop models.TripStop
	err = s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", stopID, tripID).First(&stop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrStopNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading stop %s: %w", stopID, err)
	}
	return trip, &stop, nil
}

// Delete removes a trip owned by userID together with its stops, their
// activities and its expenses.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetOwned(ctx, id, userID, 0); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stopIDs []string
		if err := tx.Model(&models.TripStop{}).Where("trip_id = ?", id).Pluck("id", &stopIDs).Error; err != nil {
			return fmt.Errorf("listing stops: %w", err)
		}
		if err := deleteStops(tx, stopIDs); err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&models.Expense{}).Error; err != nil {
			return fmt.Errorf("deleting expenses: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.Trip{}).Error; err != nil {
			return fmt.Errorf("deleting trip: %w", err)
		}
		return nil
	})
}

// DeleteStop removes one stop of a trip owned by userID and its activities.
func (s *Store) DeleteStop(ctx context.Context, tripID, stopID, userID string) error {
	if _, _, err := s.GetOwnedStop(ctx, tripID, stopID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteStops(tx, []string{stopID})
	})
}

func deleteStops(tx *gorm.DB, stopIDs []string) error {
	if len(stopIDs) == 0 {
		return nil
	}
	if err := tx.Where("stop_id IN ?", stopIDs).Delete(&models.TripActivity{}).Error; err != nil {
		return fmt.Errorf("deleting activities: %w", err)
	}
	if err := tx.Where("id IN ?", stopIDs).Delete(&models.TripStop{}).Error; err != nil {
		return fmt.Errorf("deleting stops: %w", err)
	}
	return nil
}

// GetOwnedTripActivity loads a trip-activity scheduled on any stop of a trip
// owned by userID, with its catalog activity.
func (s *Store) GetOwnedTripActivity(ctx context.Context, tripID, tripActivityID, userID string) (*models.TripActivity, error) {
	if _, err := s.GetOwned(ctx, tripID, userID, 0); err != nil {
		return nil, err
	}

	var ta models.TripActivity
	err := s.db.WithContext(ctx).
		Joins("JOIN trip_stops ON trip_stops.id = trip_activities.stop_id").
		Where("trip_activities.id = ? AND trip_stops.trip_id = ?", tripActivityID, tripID).
		Preload("Activity").
		First(&ta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTripActivityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading trip activity %s: %w", tripActivityID, err)
	}
	return &ta, nil
}

// DeleteTripActivity removes one trip-activity of a trip owned by userID.
func (s *Store) DeleteTripActivity(ctx context.Context, tripID, tripActivityID, userID string) error {
	if _, err := s.GetOwnedTripActivity(ctx, tripID, tripActivityID, userID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", tripActivityID).Delete(&models.TripActivity{}).Error; err != nil {
		return fmt.Errorf("deleting trip activity: %w", err)
	}
	return nil
}

// DeleteExpense removes one expense of a trip owned by userID.
func (s *Store) DeleteExpense(ctx context.Context, tripID, expenseID, userID string) error {
	if _, err := s.GetOwned(ctx, tripID, userID, 0); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND trip_id = ?", expenseID, tripID).Delete(&models.Expense{})
	if res.Error != nil {
		return fmt.Errorf("deleting expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
