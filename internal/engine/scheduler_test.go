package engine

import "testing"

func TestSchedulerSelectsExactBatch(t *testing.T) {
	tests := []struct {
		name    string
		libSize int
		batch   int
		want    int
	}{
		{"batch smaller than library", 10, 4, 4},
		{"batch equals library", 5, 5, 5},
		{"batch larger than library", 3, 8, 3},
		{"single template", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scheduler
			got := s.Select(tt.libSize, tt.batch)
			if len(got) != tt.want {
				t.Errorf("selected %d indices, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSchedulerWraparound(t *testing.T) {
	var s Scheduler

	// Library of 5, batch of 4: second selection must wrap
	first := s.Select(5, 4)
	second := s.Select(5, 4)

	wantFirst := []int{0, 1, 2, 3}
	wantSecond := []int{4, 0, 1, 2}

	for i := range wantFirst {
		if first[i] != wantFirst[i] {
			t.Errorf("first[%d] = %d, want %d", i, first[i], wantFirst[i])
		}
	}
	for i := range wantSecond {
		if second[i] != wantSecond[i] {
			t.Errorf("second[%d] = %d, want %d", i, second[i], wantSecond[i])
		}
	}
}

func TestSchedulerCursorAdvance(t *testing.T) {
	// After N cycles, cursor = (N * batch) mod libSize
	const libSize, batch, cycles = 7, 3, 11

	var s Scheduler
	for i := 0; i < cycles; i++ {
		s.Select(libSize, batch)
	}

	want := (cycles * batch) % libSize
	if s.Cursor() != want {
		t.Errorf("cursor after %d cycles = %d, want %d", cycles, s.Cursor(), want)
	}
}

func TestSchedulerFullCoverageWindow(t *testing.T) {
	// Over ceil(libSize/batch) consecutive cycles every template is
	// selected at least once.
	const libSize, batch = 10, 3
	window := (libSize + batch - 1) / batch

	var s Scheduler
	seen := make(map[int]bool)
	for i := 0; i < window; i++ {
		for _, idx := range s.Select(libSize, batch) {
			seen[idx] = true
		}
	}

	for i := 0; i < libSize; i++ {
		if !seen[i] {
			t.Errorf("template %d not selected within %d cycles", i, window)
		}
	}
}

func TestSchedulerIndicesInRange(t *testing.T) {
	var s Scheduler
	for cycle := 0; cycle < 50; cycle++ {
		for _, idx := range s.Select(6, 4) {
			if idx < 0 || idx >= 6 {
				t.Fatalf("cycle %d: index %d outside [0, 6)", cycle, idx)
			}
		}
		if s.Cursor() < 0 || s.Cursor() >= 6 {
			t.Fatalf("cycle %d: cursor %d outside [0, 6)", cycle, s.Cursor())
		}
	}
}

func TestSchedulerEmptyLibrary(t *testing.T) {
	var s Scheduler
	if got := s.Select(0, 4); got != nil {
		t.Errorf("empty library should select nothing, got %v", got)
	}
}

func TestSchedulerReset(t *testing.T) {
	var s Scheduler
	s.Select(5, 3)
	s.Reset()
	if s.Cursor() != 0 {
		t.Errorf("cursor after reset = %d, want 0", s.Cursor())
	}
}
