package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	verrors "github.com/23skdu/vebtree/internal/errors"
	"github.com/23skdu/vebtree/internal/interop"
	"github.com/23skdu/vebtree/internal/metrics"
	"github.com/23skdu/vebtree/internal/veb"
)

// trial carries the state shared by the phases of one seeded run.
type trial struct {
	cfg    Config
	logger zerolog.Logger
	rng    *rand.Rand
	mem    memory.Allocator

	tree   *veb.Tree
	mirror *roaring.Bitmap
}

type phase struct {
	name string
	run  func(*trial) error
}

var phases = []phase{
	{"fill_drain", (*trial).fillDrain},
	{"populate", (*trial).populate},
	{"walks", (*trial).walks},
	{"drain_copies", (*trial).drainCopies},
	{"algebra", (*trial).algebra},
	{"resize", (*trial).resize},
	{"export", (*trial).export},
}

// RunTrials runs cfg.Trials independent trials, at most cfg.Concurrency at
// a time. Trial i is seeded with cfg.Seed+i. The first failure cancels the
// trials that have not started yet.
func RunTrials(ctx context.Context, cfg Config, logger zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i := 0; i < cfg.Trials; i++ {
		seed := cfg.Seed + int64(i)
		g.Go(func() error {
			err := runTrial(gctx, cfg, seed, logger.With().Int64("seed", seed).Logger())
			if err != nil {
				metrics.TrialsTotal.WithLabelValues("failed").Inc()
				return err
			}
			metrics.TrialsTotal.WithLabelValues("passed").Inc()
			return nil
		})
	}
	return g.Wait()
}

func runTrial(ctx context.Context, cfg Config, seed int64, logger zerolog.Logger) error {
	tree, err := veb.New(cfg.Universe)
	if err != nil {
		return err
	}
	tr := &trial{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewPCG(uint64(seed), uint64(cfg.Universe))),
		mem:    memory.NewGoAllocator(),
		tree:   tree,
	}

	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := p.run(tr)
		elapsed := time.Since(start)
		metrics.PhaseDurationSeconds.WithLabelValues(p.name).Observe(elapsed.Seconds())
		if err != nil {
			logger.Error().Err(err).Str("phase", p.name).Dur("elapsed", elapsed).Msg("Phase failed")
			return err
		}
		logger.Info().Str("phase", p.name).Dur("elapsed", elapsed).Msg("Phase complete")
	}
	return nil
}

// mismatch reports a result that disagrees with the roaring mirror.
func mismatch(op, format string, args ...interface{}) error {
	return verrors.Newf(verrors.ErrorTypeComputation, op, format, args...)
}

func (tr *trial) fillDrain() error {
	u := tr.cfg.Universe
	for x := uint64(0); x < u; x++ {
		tr.tree.Insert(x)
	}
	if n := tr.tree.Count(); n != u {
		return mismatch("fill_drain", "filled tree holds %d of %d elements", n, u)
	}
	for x := uint64(0); x < u; x++ {
		tr.tree.Delete(x)
	}
	metrics.ElementOperationsTotal.WithLabelValues("insert").Add(float64(u))
	metrics.ElementOperationsTotal.WithLabelValues("delete").Add(float64(u))

	if tr.tree.HasAny() {
		return mismatch("fill_drain", "tree reports elements after draining")
	}
	if !tr.tree.Empty(true) {
		return mismatch("fill_drain", "drained tree has residue below the top level")
	}
	return nil
}

func (tr *trial) populate() error {
	u := tr.cfg.Universe
	generate := u * tr.cfg.PercentPop / 1000
	tr.mirror = roaring.New()

	var inserted uint64
	for range generate {
		x := tr.rng.Uint64N(u)
		tr.mirror.Add(uint32(x))
		if tr.tree.CheckInsert(x) {
			inserted++
		}
	}
	metrics.ElementOperationsTotal.WithLabelValues("insert").Add(float64(generate))
	metrics.PopulatedElements.Set(float64(inserted))
	tr.logger.Info().
		Uint64("generated", generate).
		Uint64("inserted", inserted).
		Msg("Populated tree")

	if card := tr.mirror.GetCardinality(); inserted != card {
		return mismatch("populate", "inserted %d distinct elements, mirror holds %d", inserted, card)
	}
	if err := tr.tree.Validate(); err != nil {
		return err
	}
	return nil
}

func (tr *trial) walks() error {
	if !interop.Matches(tr.tree, tr.mirror) {
		return mismatch("walks", "successor walk disagrees with mirror")
	}

	it := tr.mirror.ReverseIterator()
	x := tr.tree.Predecessor(veb.AfterLast)
	for it.HasNext() {
		want := uint64(it.Next())
		if x != want {
			return mismatch("walks", "predecessor walk returned %d, want %d", x, want)
		}
		x = tr.tree.Predecessor(x)
	}
	if x != veb.NoPredecessor {
		return mismatch("walks", "predecessor walk continued past minimum to %d", x)
	}
	metrics.ElementOperationsTotal.WithLabelValues("successor").Add(float64(tr.mirror.GetCardinality() + 1))
	metrics.ElementOperationsTotal.WithLabelValues("predecessor").Add(float64(tr.mirror.GetCardinality() + 1))
	return nil
}

func (tr *trial) drainCopies() error {
	forward := tr.tree.Clone()
	it := tr.mirror.Iterator()
	for x := forward.SuccessorDelete(veb.BeforeFirst); x != veb.NoSuccessor; x = forward.SuccessorDelete(x) {
		if !it.HasNext() || uint64(it.Next()) != x {
			return mismatch("drain_copies", "successor drain returned %d out of order", x)
		}
	}
	if it.HasNext() || !forward.Empty(true) {
		return mismatch("drain_copies", "successor drain left elements behind")
	}

	backward := tr.tree.Clone()
	rit := tr.mirror.ReverseIterator()
	for x := backward.PredecessorDelete(veb.AfterLast); x != veb.NoPredecessor; x = backward.PredecessorDelete(x) {
		if !rit.HasNext() || uint64(rit.Next()) != x {
			return mismatch("drain_copies", "predecessor drain returned %d out of order", x)
		}
	}
	if rit.HasNext() || !backward.Empty(true) {
		return mismatch("drain_copies", "predecessor drain left elements behind")
	}

	if !interop.Matches(tr.tree, tr.mirror) {
		return mismatch("drain_copies", "draining a copy changed the original")
	}
	metrics.ElementOperationsTotal.WithLabelValues("successor_delete").Add(float64(tr.mirror.GetCardinality()))
	metrics.ElementOperationsTotal.WithLabelValues("predecessor_delete").Add(float64(tr.mirror.GetCardinality()))
	return nil
}

func (tr *trial) algebra() error {
	inv := tr.tree.Clone()
	inv.Invert()
	twice := inv.Clone()
	twice.Invert()
	if !twice.Equal(tr.tree) {
		return mismatch("algebra", "double inversion differs from original")
	}

	and := inv.Clone()
	if err := and.And(tr.tree); err != nil {
		return verrors.WrapComputationError(err, "algebra", "and")
	}
	if and.HasAny() {
		return mismatch("algebra", "set AND its complement is not empty")
	}

	or := inv.Clone()
	if err := or.Or(tr.tree); err != nil {
		return verrors.WrapComputationError(err, "algebra", "or")
	}
	full := veb.MustNew(tr.cfg.Universe)
	full.InsertAll()
	if !or.Equal(full) {
		return mismatch("algebra", "set OR its complement is not the universe")
	}

	xor := tr.tree.Clone()
	if err := xor.Xor(tr.tree.Clone()); err != nil {
		return verrors.WrapComputationError(err, "algebra", "xor")
	}
	if xor.HasAny() || !xor.Empty(true) {
		return mismatch("algebra", "set XOR itself is not empty")
	}

	for _, c := range []*veb.Tree{inv, and, or, xor} {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (tr *trial) resize() error {
	half := tr.cfg.Universe / 2
	if half == 0 {
		return nil
	}
	shrunk := tr.tree.Clone()
	if err := shrunk.Resize(half, true); err != nil {
		return verrors.WrapComputationError(err, "resize", "resize to half universe")
	}
	if err := shrunk.Validate(); err != nil {
		return err
	}

	want := tr.mirror.Clone()
	want.RemoveRange(half, uint64(tr.cfg.Universe))
	if !interop.Matches(shrunk, want) {
		return mismatch("resize", "resized tree disagrees with filtered mirror")
	}
	return nil
}

func (tr *trial) export() error {
	if !interop.ToRoaring(tr.tree).Equals(tr.mirror) {
		return mismatch("export", "roaring export disagrees with mirror")
	}

	arr := interop.ToArrow(tr.mem, tr.tree)
	defer arr.Release()
	back, err := interop.FromArrow(arr, tr.cfg.Universe)
	if err != nil {
		return verrors.WrapComputationError(err, "export", "arrow import")
	}
	if !back.Equal(tr.tree) {
		return mismatch("export", "arrow round trip changed the set")
	}
	return nil
}
