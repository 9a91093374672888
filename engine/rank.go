// ABOUTME: Top-K ranking of feasible orderings across the full permutation space
// ABOUTME: Runs sequentially or on a worker pool with a deterministic global merge

package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"albumseq/album"
	"albumseq/pool"
)

const (
	defaultBatchSize     = 512
	defaultProgressEvery = 5000
	cancelCheckInterval  = 1024
)

var (
	// ErrInvalidInput wraps every precondition violation found before enumeration
	ErrInvalidInput = errors.New("invalid ranking input")
	// ErrTooManyTracks is returned when the tracklist exceeds Request.MaxTracks
	ErrTooManyTracks = errors.New("too many tracks for exhaustive search")
)

// Request holds everything needed for one ranking run
type Request struct {
	Tracks      album.Tracklist
	Constraints []album.Constraint
	Medium      album.Medium
	Count       int  // Number of results to keep (K)
	MinScore    *int // Optional minimum score, nil means no threshold

	Workers       int             // <= 1 runs in the calling goroutine
	BatchSize     int             // Orderings per pool task (default 512)
	MaxTracks     int             // Refuse larger tracklists, 0 disables the guard
	Progress      chan<- Progress // Optional, receives non-blocking snapshots
	ProgressEvery int             // Orderings between snapshots in sequential mode
}

// Result is one ranked ordering
type Result struct {
	Score     int
	Ordering  album.Tracklist
	Sides     []album.Tracklist // Side partition of Ordering
	Satisfied []bool            // Per-constraint satisfaction, indexed like Request.Constraints
	Sequence  int64             // Position in the enumeration, used for tie-breaks
}

// Progress is a snapshot of a running ranking
type Progress struct {
	Evaluated int64 // Orderings enumerated so far
	Feasible  int64 // Orderings that fit the medium
	Total     int64 // n! or -1 when it overflows
	BestScore int   // Best score kept so far, -1 if none
	Done      bool
}

// Validate checks the request's preconditions
func (r Request) Validate() error {
	if err := r.Medium.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := r.Tracks.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	for i, c := range r.Constraints {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: constraint %d: %w", ErrInvalidInput, i, err)
		}
	}

	if r.Count < 0 {
		return fmt.Errorf("%w: negative result count %d", ErrInvalidInput, r.Count)
	}

	if r.MinScore != nil && *r.MinScore < 0 {
		return fmt.Errorf("%w: negative minimum score %d", ErrInvalidInput, *r.MinScore)
	}

	if r.MaxTracks > 0 && len(r.Tracks) > r.MaxTracks {
		return fmt.Errorf("%w: %d tracks means %s orderings (limit is %d tracks)",
			ErrTooManyTracks, len(r.Tracks), formatTotal(Factorial(len(r.Tracks))), r.MaxTracks)
	}

	return nil
}

// Rank enumerates every ordering of req.Tracks, drops those that do not fit the medium
// or score below req.MinScore, and returns the req.Count best by descending score.
// Ties keep enumeration order, so identical requests always return identical results.
func Rank(ctx context.Context, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Count == 0 {
		return []Result{}, nil
	}

	ev := newEvaluator(req)

	var err error
	if req.Workers > 1 && len(req.Tracks) > 1 {
		err = ev.runParallel(ctx)
	} else {
		err = ev.runSequential(ctx)
	}

	ev.report(true)

	if err != nil {
		return nil, fmt.Errorf("ranking cancelled after %d orderings: %w", ev.evaluated.Load(), err)
	}

	return ev.best.results(), nil
}

// evaluator carries the shared state of one ranking run
type evaluator struct {
	req   Request
	total int64

	mu   sync.Mutex
	best *topK

	evaluated atomic.Int64
	feasible  atomic.Int64
}

func newEvaluator(req Request) *evaluator {
	if req.BatchSize <= 0 {
		req.BatchSize = defaultBatchSize
	}

	if req.ProgressEvery <= 0 {
		req.ProgressEvery = defaultProgressEvery
	}

	return &evaluator{
		req:   req,
		total: Factorial(len(req.Tracks)),
		best:  newTopK(req.Count),
	}
}

// evaluate allocates and scores one ordering, offering it to best if it qualifies
func (ev *evaluator) evaluate(perm []int, seq int64, best *topK) {
	ordering := materialize(ev.req.Tracks, perm)

	partition := Allocate(ordering, ev.req.Medium)
	if !partition.Feasible {
		return
	}

	ev.feasible.Add(1)

	score, satisfied := ScoreWithBreakdown(ordering, partition, ev.req.Constraints)
	if ev.req.MinScore != nil && score < *ev.req.MinScore {
		return
	}

	if !best.admits(score, seq) {
		return
	}

	best.offer(Result{
		Score:     score,
		Ordering:  ordering,
		Sides:     partition.Sides,
		Satisfied: satisfied,
		Sequence:  seq,
	})
}

func (ev *evaluator) runSequential(ctx context.Context) error {
	var seq int64

	for perm := range Permutations(len(ev.req.Tracks)) {
		if seq%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		ev.evaluate(perm, seq, ev.best)
		seq++
		ev.evaluated.Store(seq)

		if seq%int64(ev.req.ProgressEvery) == 0 {
			ev.report(false)
		}
	}

	return nil
}

// runParallel copies orderings into batches and evaluates each batch on the pool.
// Every batch reduces to its own top-K, which is merged into the global one.
func (ev *evaluator) runParallel(ctx context.Context) error {
	n := len(ev.req.Tracks)
	batchSize := ev.req.BatchSize

	wp := pool.NewWorkerPool(ev.req.Workers, ev.req.Workers*2)
	defer wp.Close()

	submit := func(batch []int, start int64) error {
		return wp.Submit(ctx, func() {
			if ctx.Err() != nil {
				return
			}

			local := newTopK(ev.req.Count)
			count := int64(len(batch) / max(n, 1))

			for i := range count {
				ev.evaluate(batch[int(i)*n:int(i+1)*n], start+i, local)
			}

			ev.mu.Lock()
			ev.best.merge(local)
			ev.mu.Unlock()

			ev.evaluated.Add(count)
			ev.report(false)
		})
	}

	var (
		seq   int64
		start int64
		batch = make([]int, 0, batchSize*n)
	)

	for perm := range Permutations(n) {
		batch = append(batch, perm...)
		seq++

		if seq-start == int64(batchSize) {
			if err := submit(batch, start); err != nil {
				wp.Wait()
				return err
			}

			start = seq
			batch = make([]int, 0, batchSize*n)
		}
	}

	if len(batch) > 0 {
		if err := submit(batch, start); err != nil {
			wp.Wait()
			return err
		}
	}

	wp.Wait()

	return ctx.Err()
}

// report sends a progress snapshot without blocking the search
func (ev *evaluator) report(done bool) {
	if ev.req.Progress == nil {
		return
	}

	ev.mu.Lock()
	bestScore := ev.best.bestScore()
	ev.mu.Unlock()

	select {
	case ev.req.Progress <- Progress{
		Evaluated: ev.evaluated.Load(),
		Feasible:  ev.feasible.Load(),
		Total:     ev.total,
		BestScore: bestScore,
		Done:      done,
	}:
	default:
	}
}

// topK keeps the best limit results ordered by score descending, then sequence ascending
type topK struct {
	limit int
	items []Result
}

func newTopK(limit int) *topK {
	return &topK{limit: limit, items: make([]Result, 0, min(limit, 64))}
}

func ranksBefore(scoreA int, seqA int64, scoreB int, seqB int64) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}

	return seqA < seqB
}

// admits reports whether a candidate would be kept, before building the Result
func (t *topK) admits(score int, seq int64) bool {
	if len(t.items) < t.limit {
		return true
	}

	last := t.items[len(t.items)-1]

	return ranksBefore(score, seq, last.Score, last.Sequence)
}

func (t *topK) offer(r Result) {
	if !t.admits(r.Score, r.Sequence) {
		return
	}

	i, _ := slices.BinarySearchFunc(t.items, r, func(e, target Result) int {
		if ranksBefore(e.Score, e.Sequence, target.Score, target.Sequence) {
			return -1
		}

		return 1
	})

	t.items = slices.Insert(t.items, i, r)
	if len(t.items) > t.limit {
		t.items = t.items[:t.limit]
	}
}

func (t *topK) merge(other *topK) {
	for _, r := range other.items {
		t.offer(r)
	}
}

func (t *topK) bestScore() int {
	if len(t.items) == 0 {
		return -1
	}

	return t.items[0].Score
}

func (t *topK) results() []Result {
	return slices.Clone(t.items)
}

func formatTotal(total int64) string {
	if total < 0 {
		return "more than 9.2e18"
	}

	return fmt.Sprintf("%d", total)
}
