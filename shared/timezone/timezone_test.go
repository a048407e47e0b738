package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cowork/shared/timezone"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{value: "2025-10-26", want: time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)},
		{value: " 2024-02-29 ", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{value: "2025-02-29", wantErr: true},
		{value: "2025-1-26", wantErr: true},
		{value: "2025/10/26", wantErr: true},
		{value: "26-10-2025", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := timezone.ParseDate(tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, timezone.ErrInvalidDate)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	late := time.Date(2025, 10, 26, 23, 30, 0, 0, jakarta)

	assert.Equal(t, "2025-10-26", timezone.FormatDate(timezone.DateOf(late)))
	assert.Equal(t, "2025-10-01", timezone.FormatDate(timezone.MonthOf(late)))
}

func TestNights(t *testing.T) {
	start := time.Date(2025, 10, 26, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(2), timezone.Nights(start, start.AddDate(0, 0, 2)))
	assert.Equal(t, int64(0), timezone.Nights(start, start))
	assert.Equal(t, int64(1), timezone.Nights(start, start.Add(3*time.Hour)))
	assert.Equal(t, int64(-1), timezone.Nights(start, start.AddDate(0, 0, -1)))
}

func TestToday(t *testing.T) {
	today := timezone.Today()

	assert.Equal(t, time.UTC, today.Location())
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, timezone.FormatDate(timezone.Now()), timezone.FormatDate(today))
}
