package julia

// Fractal holds the parameters of the Julia set being evaluated
type Fractal struct {
	C             complex128 // Coefficient defining the set
	MaxIterations int        // Iteration bound, returned for orbits that never diverge
	Threshold     float64    // Orbit diverges once its squared magnitude exceeds this
}

// DefaultFractal is the set rendered by the program (c = -0.8 + 0.156i)
var DefaultFractal = Fractal{
	C:             complex(-0.8, 0.156),
	MaxIterations: 200,
	Threshold:     1000,
}

// Point maps pixel (i, j) of a width x height grid onto [-1, 1) x [-1, 1)
func Point(i, j, width, height int) complex128 {
	fi := -1.0 + 2.0*float64(i)/float64(width)
	fj := -1.0 + 2.0*float64(j)/float64(height)
	return complex(fi, fj)
}

// Value returns the iteration at which the orbit starting at pixel (i, j) diverges,
// or MaxIterations if it stays bounded
func (f Fractal) Value(i, j, width, height int) int {
	a := Point(i, j, width, height)
	ar, ai := real(a), imag(a)
	cr, ci := real(f.C), imag(f.C)
	k := 0
	for ; k < f.MaxIterations; k++ {
		// Explicit conversions keep the result identical on FMA capable targets
		ar, ai = float64(ar*ar)-float64(ai*ai)+cr, float64(ai*ar)+float64(ar*ai)+ci
		if float64(ar*ar)+float64(ai*ai) > f.Threshold {
			break // Divergence
		}
	}
	return k
}
