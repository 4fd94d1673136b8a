package ranking

import "testing"

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		input, expected int
	}{
		{1, 1},
		{5, 5},
		{20, 20},
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{21, DefaultLimit},
		{1000, DefaultLimit},
	}
	for _, tc := range tests {
		if got := NormalizeLimit(tc.input); got != tc.expected {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizeThreshold(t *testing.T) {
	tests := []struct {
		input, expected int
	}{
		{1, 1},
		{4, 4},
		{5, 5},
		{0, DefaultThreshold},
		{6, DefaultThreshold},
	}
	for _, tc := range tests {
		if got := NormalizeThreshold(tc.input); got != tc.expected {
			t.Errorf("NormalizeThreshold(%d) = %d, want %d", tc.input, got, tc.expected)
		}
	}
}
