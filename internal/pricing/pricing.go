package pricing

import (
	"math"
	"strings"
	"time"
)

// Hourly court rates, in dollars.
const (
	MegaboxPeakRate    = 390
	MegaboxOffPeakRate = 290

	StackdHourlyRate      = 400
	StackdPerAttendeeRate = 100
)

// Durations lists the bookable session lengths, in hours.
var Durations = []float64{0.5, 1, 1.5, 2, 2.5, 3}

// Quote is the computed cost for a session. Priced is false for venues
// without a known rate table; their sessions carry no cost.
type Quote struct {
	TotalCost  float64
	IsPeakTime bool
	Priced     bool
}

// ValidDuration reports whether d is one of the bookable session lengths.
func ValidDuration(d float64) bool {
	for _, allowed := range Durations {
		if d == allowed {
			return true
		}
	}
	return false
}

// IsPeak reports whether t falls in a venue's peak window.
// Weekdays: 5pm-12am. Weekends: 10am-12am.
func IsPeak(t time.Time) bool {
	hour := t.Hour()
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return hour >= 10 && hour <= 23
	default:
		// TODO: this predicate is true for every weekday hour; the off-peak
		// window (Mon-Fri 10am-5pm) never applies. Probably meant `hour >= 17`
		// alone. Kept as-is to stay in sync with what members have been charged.
		return hour >= 17 || hour <= 23
	}
}

// Compute derives the total cost and peak flag for a session. yesCount is the
// number of confirmed attendees; it only affects venues whose rate includes a
// per-attendee component, so those sessions must be re-quoted whenever an
// attendee joins or drops out.
func Compute(dateTime time.Time, durationHours float64, location string, yesCount int) Quote {
	peak := IsPeak(dateTime)
	venue := strings.ToLower(location)

	switch {
	case strings.Contains(venue, "megabox"):
		rate := float64(MegaboxOffPeakRate)
		if peak {
			rate = MegaboxPeakRate
		}
		return Quote{TotalCost: rate * durationHours, IsPeakTime: peak, Priced: true}

	case strings.Contains(venue, "stackd") && strings.Contains(venue, "hopewell"):
		// Flat hourly rate plus a per-head charge, peak or not.
		total := StackdHourlyRate*durationHours + float64(StackdPerAttendeeRate*yesCount)
		return Quote{TotalCost: total, IsPeakTime: peak, Priced: true}

	default:
		// Unknown venue: no rate table, no cost shown.
		return Quote{IsPeakTime: peak}
	}
}

// CostPerPerson splits the total cost across confirmed attendees. With nobody
// confirmed yet the whole cost is attributed to one person, never divided by
// zero.
func CostPerPerson(totalCost float64, yesCount int) float64 {
	if yesCount < 1 {
		yesCount = 1
	}
	return totalCost / float64(yesCount)
}

// RoundForDisplay rounds a cost to 2 decimal places for presentation.
// Stored values keep full precision.
func RoundForDisplay(cost float64) float64 {
	return math.Round(cost*100) / 100
}
