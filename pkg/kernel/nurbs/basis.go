package nurbs

// findSpan returns the knot span index i with knots[i] <= t < knots[i+1].
// n is the index of the last control point and p the degree; t at the
// right end of the domain maps to the last non-empty span.
func findSpan(n, p int, t float64, knots []float64) int {
	if t >= knots[n+1] {
		return n
	}
	if t <= knots[p] {
		return p
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for t < knots[mid] || t >= knots[mid+1] {
		if t < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// basisFuns fills out[0..p] with the non-vanishing B-spline basis functions
// of degree p at t, for the span returned by findSpan.
func basisFuns(span int, t float64, p int, knots []float64, out []float64) {
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	out[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = t - knots[span+1-j]
		right[j] = knots[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := out[r] / (right[r+1] + left[j-r])
			out[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		out[j] = saved
	}
}
