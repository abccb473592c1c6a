package dataset

// XOR returns the four points of the exclusive-or problem, two classes.
func XOR() Slice {
	return Slice{
		{Class: 0, Features: []float64{0, 0}},
		{Class: 1, Features: []float64{0, 1}},
		{Class: 1, Features: []float64{1, 0}},
		{Class: 0, Features: []float64{1, 1}},
	}
}

// Separable returns four linearly separable points, two classes.
// The class equals the first coordinate.
func Separable() Slice {
	return Slice{
		{Class: 0, Features: []float64{0, 0}},
		{Class: 0, Features: []float64{0, 1}},
		{Class: 1, Features: []float64{1, 0}},
		{Class: 1, Features: []float64{1, 1}},
	}
}

// Embedded returns ten synthetic 28×28 digit-like patterns, one per class.
// Pattern i lights rows 2i..2i+7 (clipped to the image) across columns 5..22.
// Not real MNIST; useful for exercising the pipeline without data files.
func Embedded() Slice {
	const side = 28
	out := make(Slice, MNISTClasses)
	for i := range out {
		features := make([]float64, side*side)
		start := i * 2
		for row := start; row < start+8 && row < side; row++ {
			for col := 5; col < 23; col++ {
				features[row*side+col] = 0.8
			}
		}
		out[i] = Example{Class: i, Features: features}
	}
	return out
}
