package content

import "math"

// MaxLevel is the maximum achievable player level.
const MaxLevel = 20

// ExpForNextLevel returns the experience required to advance from the given
// level to the next one: floor(100 * 1.2^(level-1)).
func ExpForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(1.2, float64(level-1))))
}
