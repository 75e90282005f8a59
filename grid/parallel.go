package grid

import "sync"

// ResetUpdatedParallel clears the updated flag using workers goroutines
// dividing the array into contiguous chunks, mirroring game/parallel.go's
// snapshot/compute/apply shape narrowed to the one §5 permits
// parallelising: the fill never overlaps a pass that mutates the grid.
// workers<=1 falls back to the sequential path.
func (g *Grid) ResetUpdatedParallel(workers int) {
	n := len(g.Updated)
	if workers <= 1 || n == 0 {
		g.ResetUpdated()
		return
	}
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				g.Updated[i] = false
			}
		}(lo, hi)
	}
	wg.Wait()
}

// RebuildRowCountsParallel recomputes rowCount using workers goroutines,
// one per contiguous band of rows, giving the same counts as
// RebuildRowCounts. The frame pipeline does not call it.
func (g *Grid) RebuildRowCountsParallel(workers int) {
	if workers <= 1 || g.H == 0 {
		g.RebuildRowCounts()
		return
	}
	if workers > g.H {
		workers = g.H
	}

	var wg sync.WaitGroup
	band := (g.H + workers - 1) / workers
	for w := 0; w < workers; w++ {
		y0 := w * band
		y1 := y0 + band
		if y1 > g.H {
			y1 = g.H
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				c := int32(0)
				base := y * g.W
				for x := 0; x < g.W; x++ {
					if g.Types[base+x] != 0 {
						c++
					}
				}
				g.rowCount[y] = c
			}
		}(y0, y1)
	}
	wg.Wait()
}
