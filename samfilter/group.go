package samfilter

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/samfilter/encoding/samtext"
)

// Group is a maximal run of contiguous records sharing one QNAME.
type Group struct {
	// Name is the QNAME shared by all records of the group.
	Name string
	// Flags is the bitwise OR of the FLAG fields of all records.
	Flags sam.Flags
	// Len is the SEQ length of the first record. Later records don't change it.
	Len uint32
	// Lines holds the raw records in input order.
	Lines []string
}

// HasSupplementary reports whether any record of the group is a
// supplementary alignment.
func (g *Group) HasSupplementary() bool {
	return g.Flags&sam.Supplementary != 0
}

// accumulator collects contiguous records with the same QNAME into a Group
// and hands each completed group to flush. The group passed to flush is only
// valid for the duration of the call.
type accumulator struct {
	// cur is the open group, or nil if no record has been added since the
	// last flush.
	cur   *Group
	buf   Group
	flush func(*Group) error
}

func newAccumulator(flush func(*Group) error) *accumulator {
	return &accumulator{flush: flush}
}

// add appends a record to the open group, or flushes the open group and
// starts a new one if the record's QNAME differs.
func (a *accumulator) add(rec *samtext.Line) error {
	if a.cur != nil && a.cur.Name == rec.Name {
		a.cur.Lines = append(a.cur.Lines, rec.Text)
		a.cur.Flags |= rec.Flags
		return nil
	}
	if err := a.finish(); err != nil {
		return err
	}
	g := &a.buf
	g.Name = rec.Name
	g.Flags = rec.Flags
	g.Len = rec.SeqLen
	g.Lines = append(g.Lines[:0], rec.Text)
	a.cur = g
	return nil
}

// finish flushes the open group, if any.
func (a *accumulator) finish() error {
	if a.cur == nil {
		return nil
	}
	g := a.cur
	a.cur = nil
	return a.flush(g)
}
