// Package rangemath provides the small width-arithmetic helpers the split
// and join stages share: cumulative width sums and locating which element
// of a sequence of widths covers a given offset. Kept standalone (rather
// than inlined at each call site) because both the search engine's path
// reconstruction and the insert pipeline's offset decomposition need the
// identical boundary convention.
package rangemath

// CumulativeWidths returns, for each index i, the sum of widths[:i] (so
// the returned slice has one more element than widths, with a trailing
// total). CumulativeWidths([1,2,2]) = [0,1,3,5].
func CumulativeWidths(widths []int) []int {
	out := make([]int, len(widths)+1)
	total := 0
	for i, w := range widths {
		out[i] = total
		total += w
	}
	out[len(widths)] = total
	return out
}

// Locate finds which element of widths contains atom offset o, using one
// of two boundary conventions when o lands exactly between two elements:
//
//   - front=true attributes an exact boundary to the END of the previous
//     element (clean=true, index is the previous element). Used for the
//     right edge of a covered span.
//   - front=false attributes an exact boundary to the START of the next
//     element (clean=true, index is the next element). Used for the left
//     edge of a covered span.
//
// When o lands strictly inside an element, clean is false and inner is
// the offset within that element. Locate reports ok=false if o is outside
// [0, total width].
func Locate(widths []int, o int, front bool) (index int, inner int, clean bool, ok bool) {
	cum := 0
	for i, w := range widths {
		if front {
			if o > cum && o <= cum+w {
				if o == cum+w {
					return i, 0, true, true
				}
				return i, o - cum, false, true
			}
		} else {
			if o >= cum && o < cum+w {
				if o == cum {
					return i, 0, true, true
				}
				return i, o - cum, false, true
			}
		}
		cum += w
	}
	if front && o == cum {
		if len(widths) == 0 {
			return 0, 0, false, false
		}
		return len(widths) - 1, 0, true, true
	}
	if !front && o == 0 && len(widths) > 0 {
		return 0, 0, true, true
	}
	return 0, 0, false, false
}
