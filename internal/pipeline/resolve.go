package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"invoicehs/internal"
	"invoicehs/internal/catalog"
)

// ResolveHSCodes runs augment, match and assemble for every record. With
// workers > 1 records are matched concurrently; the output keeps input order
// and equals the sequential result. Only ctx cancellation returns an error.
func ResolveHSCodes(ctx context.Context, records []internal.LineItemRecord, cat *catalog.Catalog, workers int) ([]internal.LineItemRecord, error) {
	matcher := NewMatcher(cat)
	out := make([]internal.LineItemRecord, len(records))

	if workers <= 1 || len(records) < 2 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = resolveOne(matcher, rec)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = resolveOne(matcher, records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func resolveOne(m *Matcher, rec internal.LineItemRecord) internal.LineItemRecord {
	return Assemble(rec, m.Match(Augment(rec.FullDescription)))
}
