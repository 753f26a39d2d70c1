package samfilter

// Reason tells why a group was rejected.
type Reason int

const (
	// Accepted means that the group passed every filter.
	Accepted Reason = iota
	// RejectAllowList means that the QNAME is not in Opts.AllowList.
	RejectAllowList
	// RejectSupplementary means that the group failed Opts.Supplementary.
	RejectSupplementary
	// RejectMinLen means that the group length is not above Opts.MinLen.
	RejectMinLen
	// RejectMaxLen means that the group length is not below Opts.MaxLen.
	RejectMaxLen
	// RejectExpr means that Opts.Expr evaluated to false.
	RejectExpr
	numReasons
)

var reasonNames = [numReasons]string{
	"accepted",
	"allow_list",
	"supplementary",
	"greater_len",
	"smaller_len",
	"filter",
}

func (r Reason) String() string {
	if r < 0 || r >= numReasons {
		return "unknown"
	}
	return reasonNames[r]
}

// evaluator applies Opts to completed groups.
type evaluator struct {
	opts Opts
	expr *groupExpr
}

func newEvaluator(opts Opts) (*evaluator, error) {
	if err := validate(&opts); err != nil {
		return nil, err
	}
	e := &evaluator{opts: opts}
	if opts.Expr != "" {
		var err error
		if e.expr, err = parseExpr(opts.Expr); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// evaluate checks the filters in a fixed order and returns the first one
// that rejects the group, or Accepted. Both length bounds are exclusive.
func (e *evaluator) evaluate(g *Group) Reason {
	if e.opts.AllowList != nil && !e.opts.AllowList.Contains(g.Name) {
		return RejectAllowList
	}
	switch e.opts.Supplementary {
	case SupplementarySelect:
		if !g.HasSupplementary() {
			return RejectSupplementary
		}
	case SupplementaryDelete:
		if g.HasSupplementary() {
			return RejectSupplementary
		}
	}
	if g.Len <= e.opts.MinLen {
		return RejectMinLen
	}
	if g.Len >= e.opts.MaxLen {
		return RejectMaxLen
	}
	if e.expr != nil && !e.expr.match(g) {
		return RejectExpr
	}
	return Accepted
}
