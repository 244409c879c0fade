package termfilter

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/termfilter/bitmap"
	"github.com/hupe1980/termfilter/segment"
)

// Evaluate runs strategy against one segment and returns the bitmap of
// matching live documents.
//
// The bitmap is sized to the segment's document count and built fresh per
// call by direct bit-setting over the postings of every enumerated term;
// the number of matching terms never turns into per-term sub-queries. A
// field absent from the segment yields an empty bitmap, not an error.
// Collaborator errors propagate unchanged.
//
// Evaluate is synchronous and CPU-bound. Concurrency across independent
// segments is the caller's concern (see EvaluateAll).
func Evaluate(strategy Strategy, seg segment.Segment) (*bitmap.Bitmap, error) {
	field := strategy.Field()
	result := bitmap.New(seg.DocCount())

	dict, err := seg.Terms(field)
	if err != nil {
		return nil, fmt.Errorf("terms for field %q: %w", field, err)
	}
	if dict == nil {
		// Fields legitimately vary across segments; an absent field
		// matches nothing.
		return result, nil
	}

	enum := strategy.Enumerate(dict)
	for {
		term, ok := enum.Next()
		if !ok {
			break
		}

		postings, err := seg.Postings(field, term)
		if err != nil {
			return nil, fmt.Errorf("postings for field %q: %w", field, err)
		}
		for docID := range postings {
			result.Add(docID)
		}
	}

	// Deleted documents never match, regardless of term membership.
	if live := seg.LiveDocs(); live != nil {
		result.Filter(live.IsLive)
	}

	return result, nil
}

// EvaluateAll evaluates strategy against every segment, fanning out across
// segments bounded by WithMaxConcurrency. Results are positionally aligned
// with segments. The first segment error aborts the remaining work and is
// returned; ctx cancellation is honored between segments (a single segment
// scan is never interrupted, matching the pull-based model of Evaluate).
func EvaluateAll(ctx context.Context, strategy Strategy, segments []segment.Segment, opts ...Option) ([]*bitmap.Bitmap, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]*bitmap.Bitmap, len(segments))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)

	for i, seg := range segments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bm, err := Evaluate(strategy, seg)
			if err != nil {
				return fmt.Errorf("segment %d: %w", i, err)
			}
			results[i] = bm
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.WithField(strategy.Field()).WithSegments(len(segments)).
		DebugContext(ctx, "evaluated strategy across segments")

	return results, nil
}
