package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{"179", 179},
		{"5,267", 5267},
		{"1,234,567", 1234567},
		{" 42 ", 42},
		{"", 0},
		{"None", 0},
		{"12abc", 0},
		{"-3", -3},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ParseInt(test.text), "input %q", test.text)
	}
}

func TestParseIntSeparatorEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"1,000", "1000"},
		{"23,456,789", "23456789"},
		{"200", "200"},
	}
	for _, p := range pairs {
		require.Equal(t, ParseInt(p[1]), ParseInt(p[0]))
	}
}

func TestParseFloat(t *testing.T) {
	require.Equal(t, 42.53, ParseFloat("42.53"))
	require.Equal(t, 0.0, ParseFloat("n/a"))
	require.Equal(t, 1234.5, ParseFloat("1,234.5"))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Small Prawn", CleanText("  Small   Prawn \n"))
	require.Equal(t, "Worms", CleanText("\tWorms\x00"))
}
