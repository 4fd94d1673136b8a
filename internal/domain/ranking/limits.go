package ranking

// Result-count bounds accepted from callers.
const (
	DefaultLimit = 5
	MinLimit     = 1
	MaxLimit     = 20
)

// Rating threshold bounds for low-rated product lookups.
const (
	DefaultThreshold = 3
	MinThreshold     = 1
	MaxThreshold     = 5
)

// NormalizeLimit returns n when it is within [MinLimit, MaxLimit], DefaultLimit otherwise.
func NormalizeLimit(n int) int {
	if n < MinLimit || n > MaxLimit {
		return DefaultLimit
	}
	return n
}

// NormalizeThreshold returns n when it is within [MinThreshold, MaxThreshold], DefaultThreshold otherwise.
func NormalizeThreshold(n int) int {
	if n < MinThreshold || n > MaxThreshold {
		return DefaultThreshold
	}
	return n
}
