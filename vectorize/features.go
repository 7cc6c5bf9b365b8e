package vectorize

import "strings"

// DefaultInputWidth is the number of feature bins produced by Vectorize.
const DefaultInputWidth = 256

// Vectorize hashes normalized text into width bins.
//
// For each rune c at position i of a whitespace-separated word, bin
// (c*31 + i*7) mod width gets 1, and when a next rune n exists, bin
// (c*n + i) mod width gets 0.5. Text without words yields the zero vector.
func Vectorize(normalized string, width int) []float32 {
	v := make([]float32, width)
	if width <= 0 {
		return v
	}
	for _, word := range strings.Fields(normalized) {
		runes := []rune(word)
		for i, r := range runes {
			c := int(r)
			v[(c*31+i*7)%width] += 1
			if i+1 < len(runes) {
				v[(c*int(runes[i+1])+i)%width] += 0.5
			}
		}
	}
	return v
}

// ScaleToMax divides v in place by its largest bin, or by 1 when the largest
// bin is smaller than 1, and returns v.
func ScaleToMax(v []float32) []float32 {
	var maxBin float32 = 1
	for _, x := range v {
		if x > maxBin {
			maxBin = x
		}
	}
	if maxBin == 1 {
		return v
	}
	for i := range v {
		v[i] /= maxBin
	}
	return v
}
