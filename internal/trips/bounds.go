package trips

import (
	"time"

	"github.com/gdg-garage/itinerary-api/internal/models"
)

// DateOutside returns the earliest stop or trip-activity date of trip that
// falls outside [start, end]. The trip must be loaded with stops and
// activities.
func DateOutside(trip *models.Trip, start, end time.Time) (time.Time, bool) {
	start, end = models.Day(start), models.Day(end)

	var found time.Time
	ok := false
	check := func(d time.Time) {
		d = models.Day(d)
		if !d.Before(start) && !d.After(end) {
			return
		}
		if !ok || d.Before(found) {
			found, ok = d, true
		}
	}
	for _, stop := range trip.Stops {
		check(stop.StartDate)
		check(stop.EndDate)
		for _, a := range stop.Activities {
			check(a.ScheduledDate)
		}
	}
	return found, ok
}
