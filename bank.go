package vibe

// SampleBank is a fixed capacity collection of previously observed values
// for one pixel position.  It is a view over the models flat sample buffer,
// entries are overwritten in place and the bank never grows
type SampleBank struct {
	// data holds count*channels bytes of sample values
	data []uint8
	// channels per sample
	channels int
	// count of samples held
	count int
}

// Matches returns the number of stored samples within the given colour
// distance radius of the pixel value.  Distance is Euclidean over the
// channel vector.  Counting stops early once limit matches are found, pass
// the bank capacity to count every match
func (b SampleBank) Matches(px []uint8, radius, limit int) int {

	r2 := radius * radius
	matches := 0

	for s := 0; s < b.count; s++ {

		dist := 0
		base := s * b.channels

		for c := 0; c < b.channels; c++ {
			d := int(b.data[base+c]) - int(px[c])
			dist += d * d
		}

		if dist <= r2 {
			matches++

			if matches >= limit {
				break
			}
		}
	}

	return matches
}

// Replace overwrites the sample at the given slot with the pixel value.
// Slot selection is the callers responsibility
func (b SampleBank) Replace(slot int, px []uint8) {
	copy(b.data[slot*b.channels:(slot+1)*b.channels], px)
}

// Sample returns the stored value at the given slot as a slice view
func (b SampleBank) Sample(slot int) []uint8 {
	return b.data[slot*b.channels : (slot+1)*b.channels]
}

// Len returns the bank capacity
func (b SampleBank) Len() int {
	return b.count
}
