package service

import (
	"math"
	"time"

	"safarivista/pkg/model"
)

// ChildFareRatio is the share of the adult price charged per child. Infants
// travel free.
const ChildFareRatio = 0.7

const dateLayout = "2006-01-02"

// ComputeTotal prices a party at unitPrice per adult, rounded to cents.
func ComputeTotal(unitPrice float64, p model.Participants) float64 {
	total := unitPrice * (float64(p.Adults) + float64(p.Children)*ChildFareRatio)
	return math.Round(total*100) / 100
}

func ComputeEndDate(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays)
}

// DaysUntil counts whole days from now to start, rounding any partial day up.
func DaysUntil(now, start time.Time) int {
	return int(math.Ceil(start.Sub(now).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseStartDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseStartDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

var allowedTransitions = map[string][]string{
	"pending":   {"confirmed", "cancelled"},
	"confirmed": {"completed", "cancelled"},
}

// CanTransition reports whether a booking may move from one status to
// another. Staying in the same status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
