package decayplot

// YRange is the Y axis range of the image chart drawn for values.
func YRange(values []float64) (lo, hi float64) {
	return yRange(positive(values))
}
