package riff

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/riffkit/pkg/types"
)

// FileReport summarizes the dissection of one file. It holds no references
// into the file contents.
type FileReport struct {
	Path        string
	Format      string
	Summary     string
	Consumed    int
	Annotations types.AnnotationSummary
	Err         error // read, size-limit or no-matching-format failure
}

// OK reports whether the file was dissected without error annotations.
func (r FileReport) OK() bool {
	return r.Err == nil && r.Annotations.Errors == 0
}

// ScanFiles dissects paths with at most Config.Workers files in flight and
// returns one report per path, in input order. Per-file failures are
// recorded in the report. fn, when non-nil, is called for every dissected
// file while its contents are still mapped; calls are serialized. The
// returned error is the first error from fn or ctx.
func (d *Dissector) ScanFiles(ctx context.Context, paths []string, fn func(path string, res *Result) error) ([]FileReport, error) {
	reports := make([]FileReport, len(paths))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var fnErr error
			err := d.DissectFile(path, func(res *Result) error {
				reports[i] = FileReport{
					Path:        path,
					Format:      res.Format,
					Summary:     res.Summary,
					Consumed:    res.Consumed,
					Annotations: res.Summarize(),
				}
				if fn == nil {
					return nil
				}
				mu.Lock()
				defer mu.Unlock()
				fnErr = fn(path, res)
				return fnErr
			})
			if fnErr != nil {
				return fnErr
			}
			if err != nil {
				reports[i] = FileReport{Path: path, Err: err}
				d.log.Debug().Err(err).Str("path", path).Msg("scan skipped file")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}
