package phash

import (
	"math"
	"math/bits"
)

// MaxDistance marks two hashes that cannot be compared.
const MaxDistance uint64 = math.MaxUint64

// DefaultThreshold is the aggregate distance below which two cards are the
// same item.
const DefaultThreshold uint64 = 4000

// DefaultFloor is the per-channel distance at or below which a channel counts
// as a perfect match (distance 1), so one exact channel cannot zero the product.
const DefaultFloor uint64 = 2

// Metric is the multiplicative channel-distance metric.
type Metric struct {
	Floor uint64
}

// DefaultMetric returns the production metric.
func DefaultMetric() Metric {
	return Metric{Floor: DefaultFloor}
}

// Distance returns the product of per-channel Hamming distances, each
// floored to 1 when at or below m.Floor. Hashes with a different number of
// channels, or channels of different lengths, are MaxDistance apart.
func (m Metric) Distance(a, b Hash) uint64 {
	if len(a) != len(b) || len(a) == 0 {
		return MaxDistance
	}
	product := uint64(1)
	for i := range a {
		d, ok := hamming(a[i], b[i])
		if !ok {
			return MaxDistance
		}
		if d <= m.Floor {
			d = 1
		}
		product *= d
	}
	return product
}

// DistanceString parses both hashes and returns their distance; unparsable
// input is MaxDistance away from everything.
func (m Metric) DistanceString(a, b string) uint64 {
	ha, err := Parse(a)
	if err != nil {
		return MaxDistance
	}
	hb, err := Parse(b)
	if err != nil {
		return MaxDistance
	}
	return m.Distance(ha, hb)
}

// hamming counts differing bits.
func hamming(a, b Code) (uint64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var d int
	for i := range a {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return uint64(d), true
}
