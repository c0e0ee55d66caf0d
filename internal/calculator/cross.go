package calculator

// CrossOver reports whether a crosses above b at index i:
// a[i-1] <= b[i-1] and a[i] > b[i]. Undefined samples never cross.
func CrossOver(a, b []float64, i int) bool {
	if !crossable(a, b, i) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// CrossUnder reports whether a crosses below b at index i:
// a[i-1] >= b[i-1] and a[i] < b[i]. Undefined samples never cross.
func CrossUnder(a, b []float64, i int) bool {
	if !crossable(a, b, i) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}

// CrossOverZero reports whether s crosses above the zero line at index i.
func CrossOverZero(s []float64, i int) bool {
	return CrossOver(s, zeros(len(s)), i)
}

// CrossUnderZero reports whether s crosses below the zero line at index i.
func CrossUnderZero(s []float64, i int) bool {
	return CrossUnder(s, zeros(len(s)), i)
}

func crossable(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	return Defined(a[i-1]) && Defined(a[i]) && Defined(b[i-1]) && Defined(b[i])
}

func zeros(n int) []float64 {
	return make([]float64, n)
}
