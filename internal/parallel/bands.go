package parallel

import "sync"

var (
	defaultOnce sync.Once
	defaultPool *WorkerPool
)

// Default returns the process-wide pool, creating it with GOMAXPROCS
// workers on first use. It is never closed.
func Default() *WorkerPool {
	defaultOnce.Do(func() {
		defaultPool = NewWorkerPool(0)
	})
	return defaultPool
}

// Bands splits the half-open row range [minY, maxY) into at most n
// contiguous, non-overlapping bands that together cover the range. Band
// heights differ by at most one row. An empty range yields no bands.
func Bands(minY, maxY, n int) [][2]int {
	rows := maxY - minY
	if rows <= 0 {
		return nil
	}
	n = max(min(n, rows), 1)

	bands := make([][2]int, 0, n)
	base, extra := rows/n, rows%n
	y := minY
	for i := range n {
		h := base
		if i < extra {
			h++
		}
		bands = append(bands, [2]int{y, y + h})
		y += h
	}
	return bands
}

// minRowsPerBand keeps bands large enough that scheduling overhead stays
// small next to the per-pixel work.
const minRowsPerBand = 16

// ForRows calls fn once per band of [minY, maxY) and returns when all calls
// have finished. Small ranges and a nil pool run fn inline on the calling
// goroutine.
func ForRows(pool *WorkerPool, minY, maxY int, fn func(y0, y1 int)) {
	rows := maxY - minY
	if rows <= 0 {
		return
	}
	if pool == nil || rows < 2*minRowsPerBand || pool.Workers() == 1 {
		fn(minY, maxY)
		return
	}

	n := min(pool.Workers()*2, rows/minRowsPerBand)
	bands := Bands(minY, maxY, n)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b[0], b[1]) }
	}
	pool.ExecuteAll(work)
}
