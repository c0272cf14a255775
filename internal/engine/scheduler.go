package engine

// Scheduler owns the round-robin cursor that rotates template checks across
// cycles, bounding per-cycle correlation cost to a constant regardless of
// library size. Worst-case detection latency for any template is
// ceil(libSize/batch) cycles.
//
// The cursor is touched only by the engine worker while a run is active.
type Scheduler struct {
	cursor int
}

// Reset rewinds the cursor to the start of the library
func (s *Scheduler) Reset() {
	s.cursor = 0
}

// Cursor returns the current position
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// Select returns the library indices to check this cycle: exactly
// min(batch, libSize) positions starting at the cursor, wrapping to the
// library start when the slice runs past the end. The cursor then advances
// by batch mod libSize.
func (s *Scheduler) Select(libSize, batch int) []int {
	if libSize <= 0 || batch <= 0 {
		return nil
	}

	count := batch
	if count > libSize {
		count = libSize
	}

	indices := make([]int, count)
	for i := 0; i < count; i++ {
		indices[i] = (s.cursor + i) % libSize
	}

	s.cursor = (s.cursor + batch) % libSize
	return indices
}
