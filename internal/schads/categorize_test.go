package schads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

func TestCategorize(t *testing.T) {
	holidays := PublicHolidaySet([]string{"2025-12-25"})

	day := func(v string) time.Time {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			t.Fatalf("bad date %s: %v", v, err)
		}
		return d
	}

	tests := []struct {
		name  string
		date  string
		start string
		want  models.TimesheetCategory
	}{
		{"weekday morning", "2025-12-22", "09:00", models.CategoryOrdinary},
		{"weekday evening", "2025-12-22", "18:00", models.CategoryEvening},
		{"weekday late evening", "2025-12-22", "21:30", models.CategoryEvening},
		{"weekday night", "2025-12-22", "22:00", models.CategoryNight},
		{"early morning counts as night", "2025-12-22", "05:00", models.CategoryNight},
		{"saturday", "2025-12-20", "09:00", models.CategoryWeekend},
		{"sunday", "2025-12-21", "22:00", models.CategoryWeekend},
		{"public holiday beats weekday penalty", "2025-12-25", "22:00", models.CategoryPublicHoliday},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(day(tc.date), tc.start, holidays))
		})
	}
}
