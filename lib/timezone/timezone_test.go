package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNowOffset(t *testing.T) {
	_, offset := Now().Zone()
	// Puerto Rico observes AST (UTC-4) all year.
	require.Equal(t, -4*60*60, offset)
}

func TestInLocal(t *testing.T) {
	cases := []struct {
		in     time.Time
		expect time.Time
	}{
		{
			in:     time.Date(2025, time.January, 1, 13, 0, 0, 0, time.UTC),
			expect: time.Date(2025, time.January, 1, 17, 0, 0, 0, time.UTC),
		},
		{
			in:     time.Date(2024, time.July, 14, 15, 45, 0, 0, time.FixedZone("other", 3600)),
			expect: time.Date(2024, time.July, 14, 19, 45, 0, 0, time.UTC),
		},
	}

	for _, test := range cases {
		got := InLocal(test.in)
		require.Equal(t, Location, got.Location())
		require.True(t, test.expect.Equal(got), "expected %s, got %s", test.expect, got)
	}
}
