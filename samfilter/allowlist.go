package samfilter

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// AllowList is a set of QNAMEs. A nil AllowList means no restriction.
type AllowList map[string]struct{}

// NewAllowList creates an AllowList holding the given names.
func NewAllowList(names ...string) AllowList {
	a := make(AllowList, len(names))
	for _, name := range names {
		a[name] = struct{}{}
	}
	return a
}

// Contains reports whether name is in the list.
func (a AllowList) Contains(name string) bool {
	_, ok := a[name]
	return ok
}

// ReadAllowList reads newline-delimited QNAMEs from r. Each line is taken
// verbatim, apart from a trailing carriage return.
func ReadAllowList(r io.Reader) (AllowList, error) {
	a := AllowList{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 16<<20)
	for sc.Scan() {
		a[sc.Text()] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadAllowList reads an allow-list file. Files named *.gz, *.zst or *.bz2 are
// uncompressed transparently.
func LoadAllowList(ctx context.Context, path string) (a AllowList, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer func() {
		if err2 := in.Close(ctx); err2 != nil && err == nil {
			a, err = nil, errors.E(err2, "close", path)
		}
	}()
	r, _ := compress.NewReaderPath(in.Reader(ctx), path)
	defer r.Close() // nolint: errcheck
	if a, err = ReadAllowList(r); err != nil {
		return nil, errors.E(err, "read", path)
	}
	return a, nil
}
