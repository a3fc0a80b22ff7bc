package rangemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCumulativeWidths(t *testing.T) {
	assert.Equal(t, []int{0, 1, 3, 5}, CumulativeWidths([]int{1, 2, 2}))
	assert.Equal(t, []int{0}, CumulativeWidths(nil))
}

// TestLocate_Front exercises front=true (the TraceFront convention: an
// exact boundary belongs to the END of the previous element).
func TestLocate_Front(t *testing.T) {
	widths := []int{2, 1, 3} // total width 6

	tests := []struct {
		name      string
		o         int
		wantIdx   int
		wantInner int
		wantClean bool
		wantOK    bool
	}{
		{"zero offset has no previous element", 0, 0, 0, false, false},
		{"inside first element", 1, 0, 1, false, true},
		{"boundary after first element", 2, 0, 0, true, true},
		{"boundary after second element", 3, 1, 0, true, true},
		{"inside third element", 4, 2, 1, false, true},
		{"deeper inside third element", 5, 2, 2, false, true},
		{"boundary at total width", 6, 2, 0, true, true},
		{"out of range", 7, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, inner, clean, ok := Locate(widths, tt.o, true)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantIdx, idx)
				assert.Equal(t, tt.wantInner, inner)
				assert.Equal(t, tt.wantClean, clean)
			}
		})
	}
}

// TestLocate_Back exercises front=false (the TraceBack convention: an
// exact boundary belongs to the START of the next element).
func TestLocate_Back(t *testing.T) {
	widths := []int{2, 1, 3} // total width 6

	tests := []struct {
		name      string
		o         int
		wantIdx   int
		wantInner int
		wantClean bool
		wantOK    bool
	}{
		{"zero offset attributes to start of first", 0, 0, 0, true, true},
		{"inside first element", 1, 0, 1, false, true},
		{"boundary before second element", 2, 1, 0, true, true},
		{"boundary before third element", 3, 2, 0, true, true},
		{"inside third element", 4, 2, 1, false, true},
		{"total width has no next element", 6, 0, 0, false, false},
		{"out of range", 7, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, inner, clean, ok := Locate(widths, tt.o, false)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantIdx, idx)
				assert.Equal(t, tt.wantInner, inner)
				assert.Equal(t, tt.wantClean, clean)
			}
		})
	}
}

func TestLocate_EmptyWidths(t *testing.T) {
	_, _, _, ok := Locate(nil, 0, true)
	assert.False(t, ok)
	_, _, _, ok = Locate(nil, 0, false)
	assert.False(t, ok)
}
