package widget

import "math/rand/v2"

const (
	minEntryID = 100000
	maxEntryID = 999999
)

// RandomNumber returns a uniformly distributed integer in [100000, 999999].
// Callers do not check the result against ids already in use.
func RandomNumber() int {
	return minEntryID + rand.IntN(maxEntryID-minEntryID+1)
}
