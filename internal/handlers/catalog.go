package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/itinerary-api/internal/models"
	"gorm.io/gorm"
)

const (
	catalogLimit       = 100
	popularCityMinimum = 80
)

// CatalogHandler serves the read-only city and activity catalog.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

type ListCitiesInput struct {
	Search  string `query:"search" doc:"Case-insensitive name or country substring"`
	Country string `query:"country"`
	Popular bool   `query:"popular" doc:"Only cities with a popularity score of at least 80"`
}

type CityListOutput struct {
	Body []models.City
}

func (h *CatalogHandler) HandleListCities(ctx context.Context, input *ListCitiesInput) (*CityListOutput, error) {
	q := h.db.WithContext(ctx).Limit(catalogLimit)
	if input.Search != "" {
		pattern := containsPattern(input.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(country) LIKE ?", pattern, pattern)
	}
	if input.Country != "" {
		q = q.Where("LOWER(country) = ?", strings.ToLower(strings.TrimSpace(input.Country)))
	}
	if input.Popular {
		q = q.Where("popularity_score >= ?", popularCityMinimum).Order("popularity_score DESC")
	}
	q = q.Order("name ASC")

	cities := make([]models.City, 0)
	if err := q.Find(&cities).Error; err != nil {
		slog.Error("failed to list cities", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("Failed to list cities")
	}
	return &CityListOutput{Body: cities}, nil
}

type CatalogIDInput struct {
	ID string `path:"id"`
}

type CityOutput struct {
	Body models.City
}

func (h *CatalogHandler) HandleGetCity(ctx context.Context, input *CatalogIDInput) (*CityOutput, error) {
	var city models.City
	err := h.db.WithContext(ctx).First(&city, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("City not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load city")
	}
	return &CityOutput{Body: city}, nil
}

type ListActivitiesInput struct {
	CityID   string `query:"city_id"`
	Category string `query:"category" doc:"Case-insensitive substring"`
	MaxCost  string `query:"max_cost" pattern:"^[0-9]+(\\.[0-9]+)?$" doc:"Maximum average cost"`
	Search   string `query:"search" doc:"Case-insensitive name or description substring"`
}

type ActivityListOutput struct {
	Body []models.Activity
}

func (h *CatalogHandler) HandleListActivities(ctx context.Context, input *ListActivitiesInput) (*ActivityListOutput, error) {
	q := h.db.WithContext(ctx).Limit(catalogLimit).Order("name ASC")
	if input.CityID != "" {
		q = q.Where("city_id = ?", input.CityID)
	}
	if input.Category != "" {
		q = q.Where("LOWER(category) LIKE ?", containsPattern(input.Category))
	}
	if input.MaxCost != "" {
		maxCost, err := strconv.ParseFloat(input.MaxCost, 64)
		if err != nil {
			return nil, validationError("query.max_cost", "expected a number", input.MaxCost)
		}
		q = q.Where("avg_cost <= ?", maxCost)
	}
	if input.Search != "" {
		pattern := containsPattern(input.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	activities := make([]models.Activity, 0)
	if err := q.Find(&activities).Error; err != nil {
		slog.Error("failed to list activities", slog.String("error", err.Error()))
		return nil, huma.Error500InternalServerError("Failed to list activities")
	}
	return &ActivityListOutput{Body: activities}, nil
}

type ActivityOutput struct {
	Body models.Activity
}

func (h *CatalogHandler) HandleGetActivity(ctx context.Context, input *CatalogIDInput) (*ActivityOutput, error) {
	var activity models.Activity
	err := h.db.WithContext(ctx).First(&activity, "id = ?", input.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Activity not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load activity")
	}
	return &ActivityOutput{Body: activity}, nil
}
