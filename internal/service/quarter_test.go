package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuarterRange(t *testing.T) {
	tests := []struct {
		year      int
		quarter   int
		wantStart string
		wantEnd   string
	}{
		{2023, 1, "2023-01-01", "2023-04-01"},
		{2023, 2, "2023-04-01", "2023-07-01"},
		{2023, 3, "2023-07-01", "2023-10-01"},
		{2023, 4, "2023-10-01", "2024-01-01"},
	}

	for _, tt := range tests {
		start, end, err := QuarterRange(tt.year, tt.quarter)
		require.NoError(t, err)
		require.Equal(t, tt.wantStart, start)
		require.Equal(t, tt.wantEnd, end)
	}
}

func TestQuarterRangeContiguous(t *testing.T) {
	for _, year := range []int{1999, 2023, 2024} {
		for quarter := 1; quarter <= 4; quarter++ {
			start, end, err := QuarterRange(year, quarter)
			require.NoError(t, err)
			require.Less(t, start, end)

			if quarter < 4 {
				nextStart, _, err := QuarterRange(year, quarter+1)
				require.NoError(t, err)
				require.Equal(t, end, nextStart)
			} else {
				nextStart, _, err := QuarterRange(year+1, 1)
				require.NoError(t, err)
				require.Equal(t, end, nextStart)
			}
		}
	}
}

func TestQuarterRangeInvalid(t *testing.T) {
	for _, quarter := range []int{0, 5, -1} {
		_, _, err := QuarterRange(2023, quarter)
		require.Error(t, err)
	}
}
