package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdg-garage/itinerary-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DemoEmail    = "test@example.com"
	DemoPassword = "password123"
	SampleTripID = "trip_sample"
)

func coords(lat, lng float64) (*float64, *float64) {
	return &lat, &lng
}

func city(id, name, country string, costIndex float64, popularity int, lat, lng float64) models.City {
	c := models.City{
		Base:            models.Base{ID: id},
		Name:            name,
		Country:         country,
		CostIndex:       costIndex,
		PopularityScore: popularity,
	}
	c.Latitude, c.Longitude = coords(lat, lng)
	return c
}

func activity(id, cityID, name, category string, avgCost float64, duration int, description string) models.Activity {
	return models.Activity{
		Base:        models.Base{ID: id},
		CityID:      cityID,
		Name:        name,
		Category:    category,
		AvgCost:     avgCost,
		Duration:    duration,
		Description: description,
	}
}

func seedCities() []models.City {
	return []models.City{
		city("c_paris", "Paris", "France", 1.4, 95, 48.8566, 2.3522),
		city("c_tokyo", "Tokyo", "Japan", 1.35, 93, 35.6762, 139.6503),
		city("c_newyork", "New York", "United States", 1.6, 98, 40.7128, -74.0060),
		city("c_london", "London", "United Kingdom", 1.5, 94, 51.5074, -0.1278),
		city("c_rome", "Rome", "Italy", 1.2, 92, 41.9028, 12.4964),
		city("c_barcelona", "Barcelona", "Spain", 1.1, 90, 41.3874, 2.1686),
		city("c_dubai", "Dubai", "United Arab Emirates", 1.3, 88, 25.2048, 55.2708),
		city("c_sydney", "Sydney", "Australia", 1.4, 91, -33.8688, 151.2093),
	}
}

func seedActivities() []models.Activity {
	return []models.Activity{
		activity("a1", "c_paris", "Louvre Tour", "sightseeing", 25, 180, "Guided tour of the world-famous Louvre Museum"),
		activity("a2", "c_paris", "Eiffel Tower Visit", "sightseeing", 30, 120, "Visit the iconic Eiffel Tower"),
		activity("a3", "c_paris", "Seine River Cruise", "entertainment", 20, 60, "Scenic cruise along the Seine River"),
		activity("a4", "c_tokyo", "Tsukiji Food Walk", "food", 40, 120, "Food tour through Tsukiji market"),
		activity("a5", "c_tokyo", "Shibuya Crossing Experience", "sightseeing", 0, 30, "Experience the famous Shibuya crossing"),
		activity("a6", "c_tokyo", "Tokyo Skytree", "sightseeing", 35, 90, "Visit Tokyo Skytree observation deck"),
		activity("a7", "c_newyork", "Statue of Liberty Tour", "sightseeing", 25, 120, "Tour of the Statue of Liberty"),
		activity("a8", "c_newyork", "Broadway Show", "entertainment", 150, 150, "Watch a Broadway musical"),
		activity("a9", "c_london", "Big Ben & Westminster", "sightseeing", 0, 60, "Walking tour of Big Ben and Westminster"),
		activity("a10", "c_london", "British Museum", "sightseeing", 0, 180, "Visit the British Museum"),
		activity("a11", "c_rome", "Colosseum Tour", "sightseeing", 20, 120, "Guided tour of the Colosseum"),
		activity("a12", "c_barcelona", "Sagrada Familia", "sightseeing", 30, 90, "Visit Gaudi's masterpiece"),
	}
}

func mustDate(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func plannedActivity(activityID, date string, cost float64) models.TripActivity {
	return models.TripActivity{
		ActivityID:    activityID,
		ScheduledDate: mustDate(date),
		CustomCost:    &cost,
	}
}

func sampleTrip(userID string) *models.Trip {
	description := "A sample public trip showcasing Paris and London"
	paris, london := "c_paris", "c_london"
	return &models.Trip{
		Base:        models.Base{ID: SampleTripID},
		UserID:      userID,
		Name:        "Europe Adventure",
		StartDate:   mustDate("2026-03-01"),
		EndDate:     mustDate("2026-03-10"),
		Description: &description,
		IsPublic:    true,
		Stops: []models.TripStop{
			{
				CityID:     &paris,
				StartDate:  mustDate("2026-03-01"),
				EndDate:    mustDate("2026-03-05"),
				OrderIndex: 0,
				Activities: []models.TripActivity{
					plannedActivity("a1", "2026-03-02", 25),
					plannedActivity("a2", "2026-03-03", 30),
				},
			},
			{
				CityID:     &london,
				StartDate:  mustDate("2026-03-05"),
				EndDate:    mustDate("2026-03-10"),
				OrderIndex: 1,
				Activities: []models.TripActivity{
					plannedActivity("a9", "2026-03-06", 0),
				},
			},
		},
		Expenses: []models.Expense{
			{Category: "stay", EstimatedCost: 500},
			{Category: "food", EstimatedCost: 200},
		},
	}
}

// Seed loads the demo catalog, the demo user and the public sample trip.
// Catalog rows are upserted; the user and the trip are only created when
// missing, so running it again keeps user edits.
func Seed(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cities := seedCities()
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cities).Error; err != nil {
			return fmt.Errorf("seeding cities: %w", err)
		}
		logger.Info("seeded cities", slog.Int("count", len(cities)))

		activities := seedActivities()
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit(clause.Associations).Create(&activities).Error
		if err != nil {
			return fmt.Errorf("seeding activities: %w", err)
		}
		logger.Info("seeded activities", slog.Int("count", len(activities)))

		user, err := seedUser(tx)
		if err != nil {
			return err
		}
		logger.Info("seeded demo user", slog.String("email", DemoEmail))

		var existing int64
		if err := tx.Model(&models.Trip{}).Where("id = ?", SampleTripID).Count(&existing).Error; err != nil {
			return fmt.Errorf("checking sample trip: %w", err)
		}
		if existing == 0 {
			if err := tx.Create(sampleTrip(user.ID)).Error; err != nil {
				return fmt.Errorf("seeding sample trip: %w", err)
			}
		}
		logger.Info("seeded sample trip", slog.String("trip_id", SampleTripID))
		return nil
	})
}

func seedUser(tx *gorm.DB) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", DemoEmail).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loading demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}
	user = models.User{Email: DemoEmail, PasswordHash: string(hash), Name: "Test User"}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}
	return &user, nil
}
