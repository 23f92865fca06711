package scheduling

import "time"

const (
	baseGrade          = 100
	maxDelayPenalty    = 20
	delayPenaltyPerDay = 2
	fridayPenalty      = 3
)

// Grade scores a slot start relative to the earliest allowed start. Earlier
// days and mid-morning starts score higher; Fridays are slightly penalised.
func Grade(slotStart, earliestStart time.Time) int {
	days := int(slotStart.Sub(earliestStart).Hours() / 24)
	if days < 0 {
		days = 0
	}

	penalty := days * delayPenaltyPerDay
	if penalty > maxDelayPenalty {
		penalty = maxDelayPenalty
	}

	grade := baseGrade - penalty + hourBonus(slotStart.Hour())
	if slotStart.Weekday() == time.Friday {
		grade -= fridayPenalty
	}
	if grade < 0 {
		grade = 0
	}
	return grade
}

func hourBonus(hour int) int {
	switch {
	case hour >= 10 && hour < 12:
		return 5
	case hour >= 8 && hour < 10:
		return 3
	case hour >= 14 && hour < 16:
		return 2
	}
	return 0
}
