// Some helpers using closures to generate values
package valgen

// MakeConstGen returns a generator that always yields the same value.
func MakeConstGen(constant int) func() int {
	return func() int {
		return constant
	}
}

// MakeIncreasingGen returns a generator yielding start, start+1, start+2, ...
func MakeIncreasingGen(start int) func() int {
	current := start
	return func() int {
		v := current
		current++
		return v
	}
}

// MakeSeededGen returns a generator yielding a reproducible pseudo-random
// sequence in [low, high] determined entirely by the seed. Used for synthetic
// weight fallback, where re-running emission must reproduce the same bytes.
func MakeSeededGen(seed int64, low, high int) func() int {
	if high < low {
		low, high = high, low
	}
	span := int64(high-low) + 1
	state := uint64(seed)*6364136223846793005 + 1442695040888963407
	return func() int {
		state = state*6364136223846793005 + 1442695040888963407
		return low + int(int64(state>>33)%span)
	}
}
