package testutil

import (
	"testing"
	"time"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Date parses a yyyy-mm-dd literal, panicking on malformed input.
func Date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Ptr[T any](v T) *T {
	return &v
}

func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

// City options
type CityOption func(*models.City)

func WithCoordinates(lat, lng float64) CityOption {
	return func(c *models.City) {
		c.Latitude = &lat
		c.Longitude = &lng
	}
}

func CreateCity(t testing.TB, db *gorm.DB, name string, opts ...CityOption) *models.City {
	t.Helper()
	c := &models.City{Name: name, Country: "Testland", CostIndex: 1, PopularityScore: 50}
	for _, opt := range opts {
		opt(c)
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create city: %v", err)
	}
	return c
}

func CreateActivity(t testing.TB, db *gorm.DB, cityID, name string, avgCost float64) *models.Activity {
	t.Helper()
	a := &models.Activity{CityID: cityID, Name: name, Category: "sightseeing", AvgCost: avgCost, Duration: 60}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}
	return a
}

// Trip options
type TripOption func(*models.Trip)

func Public() TripOption {
	return func(tr *models.Trip) {
		tr.IsPublic = true
	}
}

func WithDescription(d string) TripOption {
	return func(tr *models.Trip) {
		tr.Description = &d
	}
}

// NewTrip builds an unsaved trip between the two yyyy-mm-dd dates.
func NewTrip(userID, name, start, end string, opts ...TripOption) *models.Trip {
	tr := &models.Trip{
		UserID:    userID,
		Name:      name,
		StartDate: Date(start),
		EndDate:   Date(end),
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// NewStop builds an unsaved stop at a catalog city.
func NewStop(cityID string, start, end string, order int, activities ...models.TripActivity) models.TripStop {
	return models.TripStop{
		CityID:     &cityID,
		StartDate:  Date(start),
		EndDate:    Date(end),
		OrderIndex: order,
		Activities: activities,
	}
}

// NewPlaceStop builds an unsaved stop at a free-text place.
func NewPlaceStop(place string, start, end string, order int, activities ...models.TripActivity) models.TripStop {
	return models.TripStop{
		StoppingPlace: &place,
		StartDate:     Date(start),
		EndDate:       Date(end),
		OrderIndex:    order,
		Activities:    activities,
	}
}

// NewTripActivity builds an unsaved trip-activity. A negative cost leaves
// the custom cost unset.
func NewTripActivity(activityID, date string, cost float64) models.TripActivity {
	ta := models.TripActivity{
		ActivityID:    activityID,
		ScheduledDate: Date(date),
	}
	if cost >= 0 {
		ta.CustomCost = &cost
	}
	return ta
}

// CreateTrip saves trip with its nested stops, activities and expenses.
func CreateTrip(t testing.TB, db *gorm.DB, trip *models.Trip) *models.Trip {
	t.Helper()
	if err := db.Create(trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

// RandomID returns an identifier that matches no row.
func RandomID() string {
	return uuid.NewString()
}
