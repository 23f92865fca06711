package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

func TestCalculateDueDate(t *testing.T) {
	start := at(2024, time.March, 1, 9, 0)
	seven := 7
	zero := 0

	tests := []struct {
		name string
		mode DueDateMode
		days *int
		want time.Time
	}{
		{"default", DueDateDefault, nil, start.AddDate(0, 0, 30)},
		{"empty mode", "", nil, start.AddDate(0, 0, 30)},
		{"work type override", DueDateDefault, &seven, start.AddDate(0, 0, 7)},
		{"zero override ignored", DueDateDefault, &zero, start.AddDate(0, 0, 30)},
		{"same day", DueDateSameDay, nil, start.Add(22 * time.Hour)},
		{"same day beats override", DueDateSameDay, &seven, start.Add(22 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDueDate(start, tt.mode, tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CalculateDueDate(start, "next_week", nil)
	assert.True(t, httperr.IsBusiness(err, "invalid_due_date_mode"))
}
