package cmd

// This file opens the input SAM file and creates the output files of a
// filter run. Paths are resolved by grailbio/base/file, so any registered
// scheme works; "-" for the input means stdin.

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
)

// input is an opened, uncompressed input stream.
type input struct {
	io.Reader
	close func() error
}

// openInput opens path for reading. Files named *.gz, *.zst or *.bz2 are
// uncompressed on the fly. Compression of stdin is detected from its first
// bytes.
func openInput(ctx context.Context, path string, stdin io.Reader) (*input, error) {
	if path == "-" {
		r, _ := compress.NewReader(stdin)
		return &input{Reader: r, close: r.Close}, nil
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	r, _ := compress.NewReaderPath(f.Reader(ctx), path)
	return &input{
		Reader: r,
		close: func() error {
			err := r.Close()
			if e := f.Close(ctx); e != nil && err == nil {
				err = e
			}
			if err != nil {
				return errors.E(err, "close", path)
			}
			return nil
		},
	}, nil
}

// output is a created output file. Data written to a path ending in ".gz"
// is gzip-compressed.
type output struct {
	io.Writer
	close func() error
}

// createOutput creates path for writing. An empty path writes to stdout,
// which is not closed.
func createOutput(ctx context.Context, path string, stdout io.Writer) (*output, error) {
	if path == "" {
		return &output{Writer: stdout, close: func() error { return nil }}, nil
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return &output{
			Writer: f.Writer(ctx),
			close: func() error {
				if err := f.Close(ctx); err != nil {
					return errors.E(err, "close", path)
				}
				return nil
			},
		}, nil
	}
	gz := gzip.NewWriter(f.Writer(ctx))
	return &output{
		Writer: gz,
		close: func() error {
			err := gz.Close()
			if e := f.Close(ctx); e != nil && err == nil {
				err = e
			}
			if err != nil {
				return errors.E(err, "close", path)
			}
			return nil
		},
	}, nil
}
