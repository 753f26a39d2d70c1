package samfilter

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/samfilter/encoding/samtext"
)

// How often, in lines, Filter checks for context cancellation.
const ctxCheckInterval = 4096

// Filter reads QNAME-grouped SAM text from r and writes every header line
// and every group accepted by opts to out, in input order. If qnames is
// non-nil, the QNAME of each accepted group is also written to it, one per
// line. Records with the same QNAME must be contiguous in the input; Filter
// does not sort.
//
// At most one group is held in memory. A group is written all at once, and
// only after the first record of the next group (or the end of input) has
// been read. Filter stops at the first malformed record or I/O error; output
// already written is flushed on a best-effort basis but not retracted.
func Filter(ctx context.Context, r io.Reader, out, qnames io.Writer, opts Opts) (Stats, error) {
	var stats Stats
	eval, err := newEvaluator(opts)
	if err != nil {
		return stats, err
	}
	log.Debug.Printf("filter: supplementary=%v greater_len=%d smaller_len=%d allow_list=%d filter=%q",
		opts.Supplementary, opts.MinLen, opts.MaxLen, len(opts.AllowList), opts.Expr)

	w := samtext.NewWriter(out)
	var qw *samtext.Writer
	if qnames != nil {
		qw = samtext.NewWriter(qnames)
	}
	acc := newAccumulator(func(g *Group) error {
		reason := eval.evaluate(g)
		stats.add(reason)
		if reason != Accepted {
			return nil
		}
		for _, line := range g.Lines {
			if err := w.Write(line); err != nil {
				return errors.E(err, "write output")
			}
		}
		if qw != nil {
			if err := qw.Write(g.Name); err != nil {
				return errors.E(err, "write qname output")
			}
		}
		return nil
	})

	err = scan(ctx, r, w, acc, &stats)
	if err == nil {
		err = acc.finish()
	}
	if e := w.Flush(); e != nil && err == nil {
		err = errors.E(e, "write output")
	}
	if qw != nil {
		if e := qw.Flush(); e != nil && err == nil {
			err = errors.E(e, "write qname output")
		}
	}
	return stats, err
}

// scan feeds lines from r to acc, writing headers straight to w.
func scan(ctx context.Context, r io.Reader, w *samtext.Writer, acc *accumulator, stats *Stats) error {
	sc := samtext.NewScanner(r)
	var line samtext.Line
	for sc.Scan(&line) {
		if sc.LineNumber()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if line.Header {
			stats.Headers++
			if err := w.Write(line.Text); err != nil {
				return errors.E(err, "write output")
			}
			continue
		}
		stats.Records++
		if err := acc.add(&line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		if samtext.IsFormatError(err) {
			return errors.E(errors.Invalid, err)
		}
		return errors.E(err, "read input")
	}
	return nil
}
