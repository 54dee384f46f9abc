// Package budget derives read-only views from a loaded trip graph: the
// budget breakdown, the server summary, over-budget days, map points and the
// day-by-day timeline. Every function is a pure function of its input.
package budget

import (
	"math"
	"sort"
	"strings"

	"github.com/gdg-garage/itinerary-api/internal/models"
)

// ActivitiesCategory buckets every trip-activity cost, whatever the catalog
// activity's own category is.
const ActivitiesCategory = "Activities"

// OverBudgetFactor marks a day as over budget when its cost exceeds the
// average daily spend by this factor.
const OverBudgetFactor = 1.5

// Breakdown is the budget view of a trip.
type Breakdown struct {
	TotalCost  float64            `json:"total_cost"`
	AvgPerDay  float64            `json:"avg_per_day"`
	ByCategory map[string]float64 `json:"by_category"`
	ByDay      map[string]float64 `json:"by_day"`
}

// Empty is the zeroed breakdown returned when inputs cannot be loaded.
func Empty() Breakdown {
	return Breakdown{
		ByCategory: map[string]float64{},
		ByDay:      map[string]float64{},
	}
}

// Compute builds the breakdown of trip. Stops must carry their activities
// and the trip its expenses for the totals to be complete.
func Compute(trip *models.Trip) Breakdown {
	b := Empty()
	if trip == nil {
		return b
	}

	for _, e := range trip.Expenses {
		b.TotalCost += e.EstimatedCost
		b.ByCategory[strings.ToLower(e.Category)] += e.EstimatedCost
	}

	for _, stop := range trip.Stops {
		for _, a := range stop.Activities {
			cost := a.Cost()
			b.TotalCost += cost
			b.ByCategory[ActivitiesCategory] += cost
			b.ByDay[models.FormatDate(a.ScheduledDate)] += cost
		}
	}

	days := models.DaysInclusive(trip.StartDate, trip.EndDate)
	start := models.Day(trip.StartDate)
	for i := 0; i < days; i++ {
		key := models.FormatDate(start.AddDate(0, 0, i))
		if _, ok := b.ByDay[key]; !ok {
			b.ByDay[key] = 0
		}
	}

	if days > 0 {
		b.AvgPerDay = b.TotalCost / float64(days)
	}
	return b
}

// IsOverBudget reports whether the given yyyy-mm-dd day spends more than
// OverBudgetFactor times the daily average.
func (b Breakdown) IsOverBudget(day string) bool {
	return b.ByDay[day] > b.AvgPerDay*OverBudgetFactor
}

// OverBudgetDays lists the over-budget days in ascending date order.
func OverBudgetDays(b Breakdown) []string {
	days := make([]string, 0)
	for day := range b.ByDay {
		if b.IsOverBudget(day) {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// Summary is the owner-facing budget summary.
type Summary struct {
	TotalCost  float64            `json:"total_cost"`
	Categories map[string]float64 `json:"categories"`
	AvgPerDay  float64            `json:"avg_per_day"`
	Days       int                `json:"days"`
}

// Summarize computes the summary of trip. Unlike Compute it always reports
// the Activities bucket and rounds the daily average to cents.
func Summarize(trip *models.Trip) Summary {
	s := Summary{Categories: map[string]float64{}}
	if trip == nil {
		return s
	}

	var activities float64
	for _, stop := range trip.Stops {
		for _, a := range stop.Activities {
			activities += a.Cost()
		}
	}
	for _, e := range trip.Expenses {
		s.TotalCost += e.EstimatedCost
		s.Categories[strings.ToLower(e.Category)] += e.EstimatedCost
	}
	s.TotalCost += activities
	s.Categories[ActivitiesCategory] += activities

	s.Days = models.DaysInclusive(trip.StartDate, trip.EndDate)
	if s.Days > 0 {
		s.AvgPerDay = roundCents(s.TotalCost / float64(s.Days))
	}
	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
