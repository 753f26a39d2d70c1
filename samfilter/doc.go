// Package samfilter selects groups of SAM records that share a QNAME.
//
// The input must be grouped by QNAME (e.g., the output of an aligner, or of
// "samtools sort -n"). Filter reads it in a single pass, collects each run of
// records with the same QNAME into a Group, and writes or drops the group as
// a whole. A group is dropped if any of the configured filters rejects it:
//
//  - the allow-list of QNAMEs (Opts.AllowList),
//  - the presence or absence of a supplementary alignment (FLAG 0x800) in
//    any record of the group (Opts.Supplementary),
//  - exclusive lower and upper bounds on the SEQ length of the first record
//    (Opts.MinLen, Opts.MaxLen),
//  - a filter expression over the group (Opts.Expr).
//
// Header lines are copied to the output as they are read.
//
// A record with an empty QNAME is grouped like any other record: a run of
// such records forms one group whose Name is "".
package samfilter
