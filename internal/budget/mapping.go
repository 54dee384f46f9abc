package budget

import (
	"sort"

	"github.com/gdg-garage/itinerary-api/internal/models"
)

// MapPoint is one plotted stop of a trip route.
type MapPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Name   string  `json:"name"`
	Order  int     `json:"order"`
	CityID string  `json:"city_id"`
}

// MapPoints extracts the route of a trip from its stops, which must already
// be in order-index order. Stops without a city carrying both coordinates are
// skipped and do not consume an order number.
func MapPoints(stops []models.TripStop) []MapPoint {
	points := make([]MapPoint, 0, len(stops))
	for _, stop := range stops {
		c := stop.City
		if c == nil || c.Latitude == nil || c.Longitude == nil {
			continue
		}
		points = append(points, MapPoint{
			Lat:    *c.Latitude,
			Lng:    *c.Longitude,
			Name:   c.Name,
			Order:  len(points) + 1,
			CityID: c.ID,
		})
	}
	return points
}

// TimelineEntry is a trip-activity as shown on the timeline.
type TimelineEntry struct {
	TripActivityID string   `json:"trip_activity_id"`
	ActivityID     string   `json:"activity_id"`
	Name           string   `json:"name"`
	StopID         string   `json:"stop_id"`
	Place          string   `json:"place"`
	CustomCost     *float64 `json:"custom_cost,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// Day groups the activities scheduled on one calendar date.
type Day struct {
	Date       string          `json:"date"`
	DayOfWeek  string          `json:"day_of_week"`
	Activities []TimelineEntry `json:"activities"`
	TotalCost  float64         `json:"total_cost"`
}

// Timeline groups the trip's activities by scheduled date. Days are sorted
// ascending and activities within a day by name; days with no activity are
// not listed.
func Timeline(trip *models.Trip) []Day {
	days := make([]Day, 0)
	if trip == nil {
		return days
	}

	index := map[string]int{}
	for _, stop := range trip.Stops {
		for _, a := range stop.Activities {
			key := models.FormatDate(a.ScheduledDate)
			i, ok := index[key]
			if !ok {
				i = len(days)
				index[key] = i
				days = append(days, Day{
					Date:      key,
					DayOfWeek: a.ScheduledDate.UTC().Weekday().String(),
				})
			}
			days[i].Activities = append(days[i].Activities, TimelineEntry{
				TripActivityID: a.ID,
				ActivityID:     a.ActivityID,
				Name:           a.Activity.Name,
				StopID:         stop.ID,
				Place:          stop.PlaceName(),
				CustomCost:     a.CustomCost,
				Notes:          a.Notes,
			})
			days[i].TotalCost += a.Cost()
		}
	}

	for i := range days {
		sort.SliceStable(days[i].Activities, func(x, y int) bool {
			return days[i].Activities[x].Name < days[i].Activities[y].Name
		})
	}
	sort.Slice(days, func(x, y int) bool { return days[x].Date < days[y].Date })
	return days
}
