package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotValidate(t *testing.T) {
	testCases := []struct {
		name      string
		slot      TimeSlot
		expectErr bool
	}{
		{
			name: "Well-formed slot",
			slot: TimeSlot{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"},
		},
		{
			name: "Seconds precision is tolerated",
			slot: TimeSlot{Date: "2026-09-01", StartTime: "09:00:00", EndTime: "10:30:00"},
		},
		{
			name:      "Start equals end",
			slot:      TimeSlot{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:00"},
			expectErr: true,
		},
		{
			name:      "Start after end",
			slot:      TimeSlot{Date: "2026-09-01", StartTime: "11:00", EndTime: "10:00"},
			expectErr: true,
		},
		{
			name:      "Garbage date",
			slot:      TimeSlot{Date: "September 1st", StartTime: "09:00", EndTime: "10:00"},
			expectErr: true,
		},
		{
			name:      "Garbage start time",
			slot:      TimeSlot{Date: "2026-09-01", StartTime: "9am", EndTime: "10:00"},
			expectErr: true,
		},
		{
			name:      "Minute out of range",
			slot:      TimeSlot{Date: "2026-09-01", StartTime: "09:61", EndTime: "10:00"},
			expectErr: true,
		},
		{
			name:      "Empty slot",
			slot:      TimeSlot{},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.slot.Validate()
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidSlot)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMinuteOfDay(t *testing.T) {
	m, err := minuteOfDay("13:45")
	assert.NoError(t, err)
	assert.Equal(t, 13*60+45, m)

	m, err = minuteOfDay("00:00")
	assert.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = minuteOfDay("7:30")
	assert.Error(t, err)

	_, err = minuteOfDay("25:00")
	assert.Error(t, err)
}
