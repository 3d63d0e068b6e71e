package schads

import (
	"strconv"
	"strings"
	"time"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// Categorize maps a worked shift onto a single timesheet category using the
// shift date and start time. Public holidays take precedence over weekends,
// weekends over evening/night penalties. Overtime is never derived here; it
// is entered as a manual timesheet adjustment.
func Categorize(date time.Time, startTime string, publicHolidays map[string]struct{}) models.TimesheetCategory {
	if _, ok := publicHolidays[date.Format("2006-01-02")]; ok {
		return models.CategoryPublicHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return models.CategoryWeekend
	}

	hour := startHour(startTime)
	switch {
	case hour >= 22 || hour < 6:
		return models.CategoryNight
	case hour >= 18:
		return models.CategoryEvening
	default:
		return models.CategoryOrdinary
	}
}

// PublicHolidaySet converts configured YYYY-MM-DD strings into a lookup set.
func PublicHolidaySet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

func startHour(startTime string) int {
	parts := strings.SplitN(startTime, ":", 2)
	if len(parts) == 0 {
		return 0
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0
	}
	return hour
}
