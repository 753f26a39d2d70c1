package samfilter

import (
	"fmt"
	"io"

	"github.com/grailbio/base/tsv"
)

// Stats counts what a Filter run has seen.
type Stats struct {
	// Headers is the number of header lines copied to the output.
	Headers int64
	// Records is the number of record lines read.
	Records int64
	// Groups is the number of groups read.
	Groups int64
	// Outcomes counts groups by the first filter that rejected them.
	// Outcomes[Accepted] is the number of groups written.
	Outcomes [numReasons]int64
}

// Accepted returns the number of groups written.
func (s *Stats) Accepted() int64 {
	return s.Outcomes[Accepted]
}

func (s *Stats) add(r Reason) {
	s.Groups++
	s.Outcomes[r]++
}

func (s *Stats) String() string {
	return fmt.Sprintf("%d headers, %d records in %d groups, %d groups accepted",
		s.Headers, s.Records, s.Groups, s.Accepted())
}

// WriteTSV writes the counters as a two-column TSV with a header line.
// Rejections are reported as "rejected_<filter>".
func (s *Stats) WriteTSV(w io.Writer) error {
	out := tsv.NewWriter(w)
	out.WriteString("COUNTER")
	out.WriteString("VALUE")
	if err := out.EndLine(); err != nil {
		return err
	}
	row := func(name string, v int64) error {
		out.WriteString(name)
		out.WriteInt64(v)
		return out.EndLine()
	}
	if err := row("headers", s.Headers); err != nil {
		return err
	}
	if err := row("records", s.Records); err != nil {
		return err
	}
	if err := row("groups", s.Groups); err != nil {
		return err
	}
	if err := row("accepted", s.Accepted()); err != nil {
		return err
	}
	for r := RejectAllowList; r < numReasons; r++ {
		if err := row("rejected_"+r.String(), s.Outcomes[r]); err != nil {
			return err
		}
	}
	return out.Flush()
}
