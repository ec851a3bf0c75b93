package viewer

import "sync"

// HeightIndex maps page number (1-based) to its last-measured pixel height,
// falling back to a fixed estimate for pages that have never been painted.
// Entries are never removed once written, even when the page later scrolls
// out of the render window, so total scroll height only gets more accurate.
// Pages complete concurrently but each writes its own key, so a plain mutex
// is all the coordination needed.
type HeightIndex struct {
	mu       sync.RWMutex
	measured map[int]float64
	estimate float64
}

// NewHeightIndex creates an index where unmeasured pages report estimate.
func NewHeightIndex(estimate float64) *HeightIndex {
	return &HeightIndex{
		measured: make(map[int]float64),
		estimate: estimate,
	}
}

// Set records the measured height of a page. Later measurements replace
// earlier ones; nothing is ever evicted.
func (h *HeightIndex) Set(page int, height float64) {
	if height <= 0 {
		return
	}
	h.mu.Lock()
	h.measured[page] = height
	h.mu.Unlock()
}

// Reset drops every measurement. Only used when a new document replaces the
// old one; within a document's lifetime the index is append-only.
func (h *HeightIndex) Reset() {
	h.mu.Lock()
	h.measured = make(map[int]float64)
	h.mu.Unlock()
}

// Get returns the measured height of a page, or the estimate.
func (h *HeightIndex) Get(page int) float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if v, ok := h.measured[page]; ok {
		return v
	}
	return h.estimate
}

// Measured reports whether the page has a real measurement.
func (h *HeightIndex) Measured(page int) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.measured[page]
	return ok
}

// Snapshot returns the heights of pages 1..pageCount as a slice indexed by
// page-1, suitable for a virtualization pass.
func (h *HeightIndex) Snapshot(pageCount int) []float64 {
	heights := make([]float64, pageCount)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := 0; i < pageCount; i++ {
		if v, ok := h.measured[i+1]; ok {
			heights[i] = v
		} else {
			heights[i] = h.estimate
		}
	}
	return heights
}

// TotalHeight returns the summed height of pages 1..pageCount.
func (h *HeightIndex) TotalHeight(pageCount int) float64 {
	var total float64
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := 1; i <= pageCount; i++ {
		if v, ok := h.measured[i]; ok {
			total += v
		} else {
			total += h.estimate
		}
	}
	return total
}

// PageTop returns the cumulative height of every page before the given one,
// i.e. the pixel offset of the page's top edge in the scroll space.
func (h *HeightIndex) PageTop(page int) float64 {
	var top float64
	h.mu.RLock()
	defer h.mu.RUnlock()
	for i := 1; i < page; i++ {
		if v, ok := h.measured[i]; ok {
			top += v
		} else {
			top += h.estimate
		}
	}
	return top
}
