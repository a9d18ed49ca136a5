package movielens

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/movielens/metadata"
)

const (
	// DefaultSeed seeds the split generator unless WithSeed is given.
	DefaultSeed int64 = 0

	// DefaultTestRatio is the expected share of lines routed to test.
	DefaultTestRatio = 0.1
)

// Partition is one side of the train/test split.
type Partition int

const (
	TrainPartition Partition = iota
	TestPartition
)

func (p Partition) String() string {
	switch p {
	case TrainPartition:
		return "train"
	case TestPartition:
		return "test"
	default:
		return fmt.Sprintf("Partition(%d)", int(p))
	}
}

type splitOptions struct {
	seed      int64
	testRatio float64
}

// SplitOption configures a Reader.
//
// A train Reader and a test Reader only partition the ratings when both use
// the same seed and test ratio.
type SplitOption func(*splitOptions)

// WithSeed sets the generator seed. Default: DefaultSeed.
func WithSeed(seed int64) SplitOption {
	return func(o *splitOptions) {
		o.seed = seed
	}
}

// WithTestRatio sets the probability of a line being routed to test.
// It must be within [0,1]. Default: DefaultTestRatio.
func WithTestRatio(ratio float64) SplitOption {
	return func(o *splitOptions) {
		o.testRatio = ratio
	}
}

// Reader streams one partition of the ratings entry as encoded examples.
//
// Every line consumes exactly one draw from a generator seeded afresh on
// each iteration, whether or not the line is emitted. Line N is therefore
// classified by the N-th draw, and a train and a test Reader with equal seed
// and ratio split the ratings into two disjoint sets that cover every line.
type Reader struct {
	ds        *Dataset
	partition Partition
	seed      int64
	testRatio float64
}

// NewReader creates a Reader over partition p of d.
func NewReader(d *Dataset, p Partition, optFns ...SplitOption) *Reader {
	o := splitOptions{
		seed:      DefaultSeed,
		testRatio: DefaultTestRatio,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return &Reader{
		ds:        d,
		partition: p,
		seed:      o.seed,
		testRatio: o.testRatio,
	}
}

// Train returns a Reader over the train partition.
func (d *Dataset) Train(optFns ...SplitOption) *Reader {
	return NewReader(d, TrainPartition, optFns...)
}

// Test returns a Reader over the test partition.
func (d *Dataset) Test(optFns ...SplitOption) *Reader {
	return NewReader(d, TestPartition, optFns...)
}

// Partition returns the partition the Reader emits.
func (r *Reader) Partition() Partition { return r.partition }

// Seed returns the generator seed.
func (r *Reader) Seed() int64 { return r.seed }

// TestRatio returns the test ratio.
func (r *Reader) TestRatio() float64 { return r.testRatio }

var errStopped = errors.New("iteration stopped")

// All iterates the examples of the Reader's partition in line order.
//
// The metadata is built first if needed. On failure the error is yielded
// once with a zero Example and iteration ends. Each call starts over from
// the first line with a freshly seeded generator, so repeated calls yield
// identical sequences.
func (r *Reader) All(ctx context.Context) iter.Seq2[Example, error] {
	return func(yield func(Example, error) bool) {
		ctx, span := r.ds.tracer.Start(ctx, "movielens.Split", trace.WithAttributes(
			attribute.String("movielens.partition", r.partition.String()),
			attribute.Int64("movielens.seed", r.seed),
			attribute.Float64("movielens.test_ratio", r.testRatio),
		))
		start := time.Now()

		meta, err := r.ds.metadata(ctx)

		var lines, emitted int
		if err == nil {
			lines, err = r.scan(ctx, func(line int, text string) error {
				ex, err := r.example(meta, line, text)
				if err != nil {
					return err
				}
				emitted++
				if !yield(ex, nil) {
					return errStopped
				}
				return nil
			})
		}
		if errors.Is(err, errStopped) {
			err = nil
		}

		span.SetAttributes(
			attribute.Int("movielens.lines", lines),
			attribute.Int("movielens.emitted", emitted),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		r.ds.opts.metricsCollector.RecordSplit(r.partition.String(), lines, emitted, time.Since(start), err)
		r.ds.opts.logger.LogSplit(ctx, r.partition, lines, emitted, err)

		if err != nil {
			yield(Example{}, err)
		}
	}
}

// Lines returns the zero-based line numbers of the ratings entry that fall
// into the Reader's partition. Lines are classified only, so no metadata is
// built.
func (r *Reader) Lines(ctx context.Context) (*metadata.IDSet, error) {
	ids := metadata.NewIDSet()
	if _, err := r.scan(ctx, func(line int, _ string) error {
		ids.Add(uint32(line))
		return nil
	}); err != nil {
		return nil, err
	}
	ids.RunOptimize()
	return ids, nil
}

// scan classifies every line of the ratings entry and calls fn for the lines
// of r's partition. It returns the number of lines classified.
func (r *Reader) scan(ctx context.Context, fn func(line int, text string) error) (int, error) {
	if !(r.testRatio >= 0 && r.testRatio <= 1) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTestRatio, r.testRatio)
	}

	a, err := r.ds.openArchive(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = a.Close() }()

	entry := r.ds.opts.source.RatingsEntry
	rc, err := a.Open(entry)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()

	rng := rand.New(rand.NewSource(r.seed))
	wantTest := r.partition == TestPartition

	var lines int
	sc := newLineScanner(ctx, rc, r.ds.opts.charset)
	for sc.Scan() {
		lines++
		isTest := rng.Float64() < r.testRatio
		if isTest != wantTest {
			continue
		}
		if err := fn(sc.Line(), sc.Text()); err != nil {
			return lines, err
		}
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("read %s: %w", entry, err)
	}
	return lines, nil
}

func (r *Reader) example(meta *Metadata, line int, text string) (Example, error) {
	entry := r.ds.opts.source.RatingsEntry

	uid, mid, raw, err := parseRating(text)
	if err != nil {
		return Example{}, &ParseError{Entry: entry, Line: line, Text: text, cause: err}
	}

	ex, err := meta.Example(uid, mid, raw)
	if err != nil {
		return Example{}, err
	}
	ex.Line = line
	return ex, nil
}

// Counts iterates both partitions concurrently and returns their sizes.
func (d *Dataset) Counts(ctx context.Context, optFns ...SplitOption) (train, test int, err error) {
	// Build up front so the two readers do not queue on the guard.
	if _, err := d.metadata(ctx); err != nil {
		return 0, 0, err
	}

	g, ctx := errgroup.WithContext(ctx)

	count := func(r *Reader, n *int) func() error {
		return func() error {
			for _, err := range r.All(ctx) {
				if err != nil {
					return err
				}
				*n++
			}
			return nil
		}
	}

	g.Go(count(d.Train(optFns...), &train))
	g.Go(count(d.Test(optFns...), &test))

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return train, test, nil
}
