package hours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_BulkOverride(t *testing.T) {
	s := NewSchedule()
	s.Weekdays = DaySelection{Selected: true, Open: "09:00", Close: "18:00"}
	s.Days[Wednesday] = DaySelection{Selected: true, Open: "08:00", Close: "12:00"}

	records := s.Encode()
	require.Len(t, records, 5)

	byDay := map[int]Record{}
	for _, r := range records {
		byDay[r.DayOfWeek] = r
	}

	// The individually selected day wins over the bulk row
	assert.Equal(t, "08:00:00", byDay[3].OpeningTime)
	assert.Equal(t, "12:00:00", byDay[3].ClosingTime)

	for _, day := range []int{1, 2, 4, 5} {
		r, ok := byDay[day]
		require.True(t, ok, "day %d should be present", day)
		assert.Equal(t, "09:00:00", r.OpeningTime)
		assert.Equal(t, "18:00:00", r.ClosingTime)
	}

	// The bulk row never touches the weekend
	_, sat := byDay[6]
	_, sun := byDay[7]
	assert.False(t, sat)
	assert.False(t, sun)
}

func TestEncode_Sparse(t *testing.T) {
	s := NewSchedule()
	s.Days[Saturday] = DaySelection{Selected: true, Open: "10:00", Close: "14:00"}

	records := s.Encode()
	require.Len(t, records, 1)
	assert.Equal(t, 6, records[0].DayOfWeek)
	assert.Equal(t, "10:00:00", records[0].OpeningTime)
	assert.Equal(t, "14:00:00", records[0].ClosingTime)
}

func TestEncode_EmptyTimesDefault(t *testing.T) {
	s := NewSchedule()
	s.Days[Monday] = DaySelection{Selected: true}

	records := s.Encode()
	require.Len(t, records, 1)
	assert.Equal(t, "00:00:00", records[0].OpeningTime)
	assert.Equal(t, "23:59:00", records[0].ClosingTime)
}

func TestEncode_BulkEmptyTimesDefault(t *testing.T) {
	s := NewSchedule()
	s.Weekdays = DaySelection{Selected: true}

	records := s.Encode()
	require.Len(t, records, 5)
	for _, r := range records {
		assert.Equal(t, "00:00:00", r.OpeningTime)
		assert.Equal(t, "23:59:00", r.ClosingTime)
	}
}

func TestEncode_Ordered(t *testing.T) {
	s := NewSchedule()
	s.Days[Sunday] = DaySelection{Selected: true, Open: "09:00", Close: "12:00"}
	s.Days[Tuesday] = DaySelection{Selected: true, Open: "09:00", Close: "12:00"}
	s.Days[Friday] = DaySelection{Selected: true, Open: "09:00", Close: "12:00"}

	records := s.Encode()
	require.Len(t, records, 3)
	assert.Equal(t, []int{2, 5, 7}, []int{records[0].DayOfWeek, records[1].DayOfWeek, records[2].DayOfWeek})
}

func TestEncode_NothingSelected(t *testing.T) {
	s := NewSchedule()
	assert.Empty(t, s.Encode())
}

func TestEncode_Idempotent(t *testing.T) {
	// Re-encoding a canonical per-day selection reproduces the same day
	// set and times.
	s := NewSchedule()
	s.Days[Monday] = DaySelection{Selected: true, Open: "08:30", Close: "17:30"}
	s.Days[Thursday] = DaySelection{Selected: true, Open: "08:30", Close: "17:30"}

	first := s.Encode()

	roundTrip := NewSchedule()
	for _, r := range first {
		roundTrip.Days[Weekday(r.DayOfWeek)] = DaySelection{
			Selected: true,
			Open:     r.OpeningTime[:5],
			Close:    r.ClosingTime[:5],
		}
	}

	assert.Equal(t, first, roundTrip.Encode())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr bool
	}{
		{
			name:   "empty schedule",
			mutate: func(s *Schedule) {},
		},
		{
			name: "valid times",
			mutate: func(s *Schedule) {
				s.Days[Monday] = DaySelection{Selected: true, Open: "09:00", Close: "18:00"}
			},
		},
		{
			name: "empty times on selected day are fine",
			mutate: func(s *Schedule) {
				s.Days[Monday] = DaySelection{Selected: true}
			},
		},
		{
			name: "malformed open",
			mutate: func(s *Schedule) {
				s.Days[Monday] = DaySelection{Selected: true, Open: "9:00", Close: "18:00"}
			},
			wantErr: true,
		},
		{
			name: "hour out of range",
			mutate: func(s *Schedule) {
				s.Days[Monday] = DaySelection{Selected: true, Open: "24:00"}
			},
			wantErr: true,
		},
		{
			name: "malformed bulk close",
			mutate: func(s *Schedule) {
				s.Weekdays = DaySelection{Selected: true, Close: "18h00"}
			},
			wantErr: true,
		},
		{
			name: "unselected rows are not validated",
			mutate: func(s *Schedule) {
				s.Days[Monday] = DaySelection{Selected: false, Open: "nonsense"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSchedule()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
