package combinatorics

import "fmt"

// Power returns k^n, panicking if it does not fit in a uint64.
func Power(k uint8, n int) uint64 {
	p := uint64(1)
	for range n {
		next := p * uint64(k)
		if k != 0 && next/uint64(k) != p {
			panic(fmt.Sprintf("%d^%d overflows", k, n))
		}
		p = next
	}
	return p
}

// OrientationCount returns k^(n-1), the number of orientation vectors of
// length n over Z_k whose entries sum to 0 mod k.
func OrientationCount(n int, k uint8) uint64 {
	if n == 0 {
		return 1
	}
	return Power(k, n-1)
}

// ValidateOrientation returns an error unless every entry of o is below k and
// the entries sum to 0 mod k.
func ValidateOrientation(o []uint8, k uint8) error {
	if k == 0 {
		return fmt.Errorf("orientation modulus must be positive")
	}
	total := 0
	for i, v := range o {
		if v >= k {
			return fmt.Errorf("slot %d has orientation %d, outside Z_%d", i, v, k)
		}
		total += int(v)
	}
	if total%int(k) != 0 {
		return fmt.Errorf("orientations sum to %d, not 0 mod %d", total, k)
	}
	return nil
}

// RankOrientation stores the first n-1 entries of o in base k, most
// significant first. The last entry is implied by the sum invariant.
func RankOrientation(o []uint8, k uint8) uint64 {
	if err := ValidateOrientation(o, k); err != nil {
		panic(fmt.Sprintf("invalid orientation %v: %v", o, err))
	}
	if len(o) == 0 {
		return 0
	}
	var r uint64
	for _, v := range o[:len(o)-1] {
		r = r*uint64(k) + uint64(v)
	}
	return r
}

// UnrankOrientation writes the orientation vector of rank r into dst. The last
// entry is derived so the entries sum to 0 mod k.
func UnrankOrientation(r uint64, k uint8, dst []uint8) {
	n := len(dst)
	if r >= OrientationCount(n, k) {
		panic(fmt.Sprintf("orientation rank %d out of range [0,%d)", r, OrientationCount(n, k)))
	}
	if n == 0 {
		return
	}
	total := 0
	for i := n - 2; i >= 0; i-- {
		dst[i] = uint8(r % uint64(k))
		total += int(dst[i])
		r /= uint64(k)
	}
	// total%k is in [0,k), so the outer mod maps k back to 0.
	dst[n-1] = uint8((int(k) - total%int(k)) % int(k))
}

// RankFreeOrientation stores every entry of o in base k with no invariant.
func RankFreeOrientation(o []uint8, k uint8) uint64 {
	var r uint64
	for i, v := range o {
		if v >= k {
			panic(fmt.Sprintf("slot %d has orientation %d, outside Z_%d", i, v, k))
		}
		r = r*uint64(k) + uint64(v)
	}
	return r
}

// UnrankFreeOrientation reverses RankFreeOrientation.
func UnrankFreeOrientation(r uint64, k uint8, dst []uint8) {
	if r >= Power(k, len(dst)) {
		panic(fmt.Sprintf("orientation rank %d out of range [0,%d)", r, Power(k, len(dst))))
	}
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = uint8(r % uint64(k))
		r /= uint64(k)
	}
}

// LabelSet is a set of piece labels, one bit per label.
type LabelSet uint32

// NewLabelSet returns the set holding labels.
func NewLabelSet(labels ...uint8) LabelSet {
	var s LabelSet
	for _, l := range labels {
		s |= 1 << l
	}
	return s
}

// Has reports whether l is in the set.
func (s LabelSet) Has(l uint8) bool {
	return s&(1<<l) != 0
}

// CountSelected returns how many entries of companion are in sel.
func CountSelected(companion []uint8, sel LabelSet) int {
	n := 0
	for _, l := range companion {
		if sel.Has(l) {
			n++
		}
	}
	return n
}

// RankSelectedOrientation stores, in base k, the orientation of every slot
// whose companion label is in sel. The companion is the piece-label vector of
// the same slots, so it must describe the same state as o.
func RankSelectedOrientation(o []uint8, k uint8, companion []uint8, sel LabelSet) uint64 {
	if len(o) != len(companion) {
		panic(fmt.Sprintf("orientation length %d does not match companion length %d", len(o), len(companion)))
	}
	var r uint64
	for i, v := range o {
		if !sel.Has(companion[i]) {
			continue
		}
		if v >= k {
			panic(fmt.Sprintf("slot %d has orientation %d, outside Z_%d", i, v, k))
		}
		r = r*uint64(k) + uint64(v)
	}
	return r
}

// UnrankSelectedOrientation writes the selected orientations of rank r into
// dst and zeroes the rest. companion must already hold the decoded labels:
// reading a stale companion places the orientations on the wrong slots, and
// nothing here can notice.
func UnrankSelectedOrientation(r uint64, k uint8, companion []uint8, sel LabelSet, dst []uint8) {
	if len(dst) != len(companion) {
		panic(fmt.Sprintf("orientation length %d does not match companion length %d", len(dst), len(companion)))
	}
	if limit := Power(k, CountSelected(companion, sel)); r >= limit {
		panic(fmt.Sprintf("orientation rank %d out of range [0,%d)", r, limit))
	}
	for i := len(dst) - 1; i >= 0; i-- {
		if !sel.Has(companion[i]) {
			dst[i] = 0
			continue
		}
		dst[i] = uint8(r % uint64(k))
		r /= uint64(k)
	}
}
