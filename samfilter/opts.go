package samfilter

import (
	"fmt"
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// SupplementaryMode selects groups by the presence of a supplementary
// alignment (FLAG bit 0x800) in any of their records. The zero value is not
// a valid mode, so an Opts that was never initialized from DefaultOpts is
// rejected rather than silently treated as unconstrained.
type SupplementaryMode int

const (
	supplementaryInvalid SupplementaryMode = iota
	// SupplementaryAny imposes no constraint.
	SupplementaryAny
	// SupplementarySelect keeps only groups with a supplementary record.
	SupplementarySelect
	// SupplementaryDelete drops groups with a supplementary record.
	SupplementaryDelete
)

// ParseSupplementaryMode parses the value of the -supplementary flag: "sel",
// "del", or "" for no constraint.
func ParseSupplementaryMode(s string) (SupplementaryMode, error) {
	switch s {
	case "":
		return SupplementaryAny, nil
	case "sel":
		return SupplementarySelect, nil
	case "del":
		return SupplementaryDelete, nil
	}
	return supplementaryInvalid, errors.E(errors.Invalid,
		fmt.Sprintf("supplementary: unrecognized mode %q, want sel or del", s))
}

func (m SupplementaryMode) String() string {
	switch m {
	case SupplementaryAny:
		return "any"
	case SupplementarySelect:
		return "sel"
	case SupplementaryDelete:
		return "del"
	}
	return fmt.Sprintf("invalid(%d)", int(m))
}

// Opts defines the group filters. Every configured filter must pass for a
// group to be written.
type Opts struct {
	// Supplementary constrains groups by the presence of a supplementary record.
	Supplementary SupplementaryMode
	// MinLen is an exclusive lower bound on the group length, i.e., the SEQ
	// length of the first record of the group.
	MinLen uint32
	// MaxLen is an exclusive upper bound on the group length.
	MaxLen uint32
	// AllowList, if non-nil, restricts output to groups whose QNAME it contains.
	AllowList AllowList
	// Expr, if non-empty, is a boolean filter expression evaluated on each
	// group after the other filters. See ExprHelp for the syntax.
	Expr string
}

// DefaultOpts leaves every filter unconstrained.
var DefaultOpts = Opts{
	Supplementary: SupplementaryAny,
	MinLen:        0,
	MaxLen:        math.MaxUint32,
}

func validate(opts *Opts) error {
	switch opts.Supplementary {
	case SupplementaryAny, SupplementarySelect, SupplementaryDelete:
	default:
		return errors.E(errors.Invalid, fmt.Sprintf("supplementary: invalid mode %v", opts.Supplementary))
	}
	if uint64(opts.MinLen)+1 >= uint64(opts.MaxLen) {
		log.Printf("no length is > %d and < %d: every group will be rejected",
			opts.MinLen, opts.MaxLen)
	}
	return nil
}
