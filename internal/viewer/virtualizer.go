package viewer

// mountMargin is how many pages beyond the computed render set stay mounted
// so near-visible pages are already painted before they scroll into view.
const mountMargin = 2

// VirtualWindow is the outcome of one virtualization pass: the pages to
// render, the spacer heights standing in for everything above and below, and
// the mounted set, which is the render set widened by mountMargin on each
// side. BeforeHeight plus the rendered pages' heights plus AfterHeight always
// equals TotalHeight, keeping the scrollbar proportion stable without
// rendering every page.
type VirtualWindow struct {
	Rendered     []int
	Mounted      []int
	BeforeHeight float64
	AfterHeight  float64
	TotalHeight  float64
}

// Contains reports whether page is in the rendered set.
func (w VirtualWindow) Contains(page int) bool {
	for _, p := range w.Rendered {
		if p == page {
			return true
		}
	}
	return false
}

// IsMounted reports whether page is in the mounted set.
func (w VirtualWindow) IsMounted(page int) bool {
	for _, p := range w.Mounted {
		if p == page {
			return true
		}
	}
	return false
}

// ComputeWindow derives the virtual window for a scroll position. heights is
// indexed by page-1 and mixes measured values with estimates; page numbers in
// the result are 1-based. The function is pure: same inputs, same window, no
// hidden state, safe to call redundantly.
func ComputeWindow(heights []float64, scrollTop, viewportHeight, buffer float64) VirtualWindow {
	w := VirtualWindow{}
	if len(heights) == 0 {
		return w
	}

	startTarget := scrollTop - buffer
	if startTarget < 0 {
		startTarget = 0
	}
	endTarget := scrollTop + viewportHeight + buffer

	var total float64
	for _, h := range heights {
		total += h
	}
	w.TotalHeight = total

	// The first page whose top edge has reached startTarget opens the
	// window; everything above it is folded into the leading spacer.
	start := -1
	var acc float64
	for i, h := range heights {
		if acc >= startTarget {
			start = i
			break
		}
		acc += h
	}
	if start == -1 {
		// Scrolled past every page top: keep the last page rendered.
		start = len(heights) - 1
		acc = total - heights[start]
	}
	w.BeforeHeight = acc

	var renderedHeight float64
	for i := start; i < len(heights); i++ {
		if acc > endTarget {
			break
		}
		w.Rendered = append(w.Rendered, i+1)
		renderedHeight += heights[i]
		acc += heights[i]
	}
	w.AfterHeight = total - w.BeforeHeight - renderedHeight

	// Mounted set only affects which pages get a live renderer instead of
	// a placeholder spacer; the spacer bookkeeping above is untouched.
	first := w.Rendered[0] - mountMargin
	if first < 1 {
		first = 1
	}
	last := w.Rendered[len(w.Rendered)-1] + mountMargin
	if last > len(heights) {
		last = len(heights)
	}
	for p := first; p <= last; p++ {
		w.Mounted = append(w.Mounted, p)
	}
	return w
}
