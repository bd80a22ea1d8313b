package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateMonthDayFlags(t *testing.T) {
	tests := []struct {
		name    string
		months  []int
		days    []int
		hours   []int
		minutes []int
		wantErr error
	}{
		{name: "all valid", months: []int{1, 12}, days: []int{1, 31}, hours: []int{0, 23}, minutes: []int{0, 59}},
		{name: "empty is valid", wantErr: nil},
		{name: "month zero", months: []int{0}, wantErr: ErrMonthOutOfRange},
		{name: "month thirteen", months: []int{13}, wantErr: ErrMonthOutOfRange},
		{name: "day zero", days: []int{0}, wantErr: ErrDayOutOfRange},
		{name: "day thirty-two", days: []int{32}, wantErr: ErrDayOutOfRange},
		{name: "hour twenty-four", hours: []int{24}, wantErr: ErrHourOutOfRange},
		{name: "minute sixty", minutes: []int{60}, wantErr: ErrMinuteOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMonthDayFlags(tt.months, tt.days, tt.hours, tt.minutes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMonthsOf(t *testing.T) {
	assert.Equal(t, []time.Month{time.March, time.December}, monthsOf([]int{3, 12}))
	assert.Empty(t, monthsOf(nil))
}
