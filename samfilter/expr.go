package samfilter

// Parsing and evaluation of group filter expressions (-filter). The syntax
// follows sambamba's filter language, restricted to what is known about a
// whole group of records.

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// ExprHelp describes the filter expression syntax.
const ExprHelp = `Filter expression defines a boolean condition on a group of records
sharing a QNAME. It is evaluated after the other filters.

EXAMPLES:
   sequence_length >= 50 && record_count == 2
   (paired && first_of_pair) || !secondary_alignment
   re(rec_name, "^run7:")

SYNTAX:

  Expressions are parsed using the Go parser, and the operator precedence
  rules follow Go's.

  expr = intliteral | stringliteral |
       re(expr, regexp) |  // Partial regex match.
       expr > expr | expr >= expr | expr < expr | expr <= expr |
       expr == expr | expr != expr |
       expr && expr | expr || expr | !expr |
       (expr) |
       symbol

  Operands of a comparison must have the same type.

  symbol = rec_name |      // QNAME of the group
       sequence_length |   // SEQ length of the first record
       record_count |      // number of records in the group
       flag |              // OR of the FLAG fields of all records
       boolean_flag

  # True if any record of the group has the bit set.
  boolean_flag = paired | proper_pair | unmapped | mate_is_unmapped |
       is_reverse_strand | mate_is_reverse_strand |
       first_of_pair | second_of_pair |
       secondary_alignment | failed_quality_control | duplicate | supplementary
`

type exprOp int

const (
	opInvalid  exprOp = iota
	opIntConst        // integer literal
	opStrConst        // string literal
	opNot             // !
	opAnd             // &&
	opOr              // ||
	opEQ              // ==
	opNE              // !=
	opGE              // >=
	opLE              // <=
	opLT              // <
	opGT              // >
	opRegex           // re(x, "...")

	opName        // Group.Name
	opSeqLength   // Group.Len
	opRecordCount // len(Group.Lines)
	opFlags       // Group.Flags
	opFlagBit     // Group.Flags&bit != 0
)

type exprType int

const (
	typeInt exprType = iota
	typeStr
	typeBool
)

func (t exprType) String() string {
	switch t {
	case typeInt:
		return "int"
	case typeStr:
		return "string"
	}
	return "bool"
}

var flagSymbols = map[string]sam.Flags{
	"paired":                 sam.Paired,
	"proper_pair":            sam.ProperPair,
	"unmapped":               sam.Unmapped,
	"mate_is_unmapped":       sam.MateUnmapped,
	"is_reverse_strand":      sam.Reverse,
	"mate_is_reverse_strand": sam.MateReverse,
	"first_of_pair":          sam.Read1,
	"second_of_pair":         sam.Read2,
	"secondary_alignment":    sam.Secondary,
	"failed_quality_control": sam.QCFail,
	"duplicate":              sam.Duplicate,
	"supplementary":          sam.Supplementary,
}

// groupExpr is a node of a typechecked filter expression.
type groupExpr struct {
	op       exprOp
	typ      exprType
	x, y     *groupExpr
	intConst int64
	strConst string
	bit      sam.Flags
	re       *regexp.Regexp
}

// exprValue is the result of evaluating a groupExpr.
type exprValue struct {
	i int64
	s string
	b bool
}

func (e *groupExpr) eval(g *Group) exprValue {
	switch e.op {
	case opIntConst:
		return exprValue{i: e.intConst}
	case opStrConst:
		return exprValue{s: e.strConst}
	case opName:
		return exprValue{s: g.Name}
	case opSeqLength:
		return exprValue{i: int64(g.Len)}
	case opRecordCount:
		return exprValue{i: int64(len(g.Lines))}
	case opFlags:
		return exprValue{i: int64(g.Flags)}
	case opFlagBit:
		return exprValue{b: g.Flags&e.bit != 0}
	case opRegex:
		return exprValue{b: e.re.MatchString(e.x.eval(g).s)}
	case opNot:
		return exprValue{b: !e.x.eval(g).b}
	case opAnd:
		return exprValue{b: e.x.eval(g).b && e.y.eval(g).b}
	case opOr:
		return exprValue{b: e.x.eval(g).b || e.y.eval(g).b}
	}
	x, y := e.x.eval(g), e.y.eval(g)
	var cmp int
	switch e.x.typ {
	case typeInt:
		cmp = compareInt(x.i, y.i)
	case typeStr:
		cmp = compareStr(x.s, y.s)
	default:
		cmp = compareBool(x.b, y.b)
	}
	switch e.op {
	case opEQ:
		return exprValue{b: cmp == 0}
	case opNE:
		return exprValue{b: cmp != 0}
	case opGE:
		return exprValue{b: cmp >= 0}
	case opLE:
		return exprValue{b: cmp <= 0}
	case opLT:
		return exprValue{b: cmp < 0}
	case opGT:
		return exprValue{b: cmp > 0}
	}
	panic(fmt.Sprintf("groupExpr: unknown op %d", e.op))
}

func compareInt(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareStr(x, y string) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func compareBool(x, y bool) int {
	if x == y {
		return 0
	}
	return 1
}

// match reports whether the group satisfies the expression.
func (e *groupExpr) match(g *Group) bool {
	return e.eval(g).b
}

type exprParser struct {
	err error
}

func (p *exprParser) errorf(node ast.Expr, format string, args ...interface{}) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %s", types.ExprString(node), fmt.Sprintf(format, args...))
	}
}

func (p *exprParser) parse(node ast.Expr) *groupExpr {
	if p.err != nil {
		return nil
	}
	switch e := node.(type) {
	case *ast.ParenExpr:
		return p.parse(e.X)
	case *ast.CallExpr:
		fun, ok := e.Fun.(*ast.Ident)
		if !ok || fun.Name != "re" {
			p.errorf(node, "unknown function")
			return nil
		}
		if len(e.Args) != 2 {
			p.errorf(node, "re() takes two args")
			return nil
		}
		x, y := p.parse(e.Args[0]), p.parse(e.Args[1])
		if p.err != nil {
			return nil
		}
		if x.typ != typeStr || y.op != opStrConst {
			p.errorf(node, "re() takes a string and a string literal")
			return nil
		}
		re, err := regexp.Compile(y.strConst)
		if err != nil {
			p.errorf(node, "re(): %v", err)
			return nil
		}
		return &groupExpr{op: opRegex, typ: typeBool, x: x, re: re}
	case *ast.UnaryExpr:
		if e.Op != token.NOT {
			break
		}
		x := p.parse(e.X)
		if p.err != nil {
			return nil
		}
		if x.typ != typeBool {
			p.errorf(node, "operand of ! must be bool, not %v", x.typ)
			return nil
		}
		return &groupExpr{op: opNot, typ: typeBool, x: x}
	case *ast.BinaryExpr:
		x, y := p.parse(e.X), p.parse(e.Y)
		if p.err != nil {
			return nil
		}
		var op exprOp
		switch e.Op {
		case token.LAND:
			op = opAnd
		case token.LOR:
			op = opOr
		case token.EQL:
			op = opEQ
		case token.NEQ:
			op = opNE
		case token.GEQ:
			op = opGE
		case token.LEQ:
			op = opLE
		case token.LSS:
			op = opLT
		case token.GTR:
			op = opGT
		default:
			p.errorf(node, "unknown binary op %v", e.Op)
			return nil
		}
		switch op {
		case opAnd, opOr:
			if x.typ != typeBool || y.typ != typeBool {
				p.errorf(node, "operands of %v must be bool", e.Op)
				return nil
			}
		case opEQ, opNE:
			if x.typ != y.typ {
				p.errorf(node, "mismatched operand types %v and %v", x.typ, y.typ)
				return nil
			}
		default:
			if x.typ != y.typ || x.typ == typeBool {
				p.errorf(node, "operands of %v must be both int or both string", e.Op)
				return nil
			}
		}
		return &groupExpr{op: op, typ: typeBool, x: x, y: y}
	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			v, err := strconv.Unquote(e.Value)
			if err != nil {
				p.errorf(node, "%v", err)
				return nil
			}
			return &groupExpr{op: opStrConst, typ: typeStr, strConst: v}
		case token.INT:
			v, err := strconv.ParseInt(e.Value, 0, 64)
			if err != nil {
				p.errorf(node, "%v", err)
				return nil
			}
			return &groupExpr{op: opIntConst, typ: typeInt, intConst: v}
		}
	case *ast.Ident:
		switch e.Name {
		case "rec_name":
			return &groupExpr{op: opName, typ: typeStr}
		case "sequence_length":
			return &groupExpr{op: opSeqLength, typ: typeInt}
		case "record_count":
			return &groupExpr{op: opRecordCount, typ: typeInt}
		case "flag":
			return &groupExpr{op: opFlags, typ: typeInt}
		}
		if bit, ok := flagSymbols[e.Name]; ok {
			return &groupExpr{op: opFlagBit, typ: typeBool, bit: bit}
		}
		p.errorf(node, "unknown symbol %q", e.Name)
		return nil
	}
	p.errorf(node, "unsupported expression")
	return nil
}

// parseExpr parses and typechecks a filter expression.
func parseExpr(str string) (*groupExpr, error) {
	node, err := parser.ParseExpr(str)
	if err != nil {
		return nil, errors.E(errors.Invalid, "filter", err)
	}
	p := exprParser{}
	e := p.parse(node)
	if p.err != nil {
		return nil, errors.E(errors.Invalid, "filter", p.err)
	}
	if e.typ != typeBool {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("filter: %q is not a boolean expression", str))
	}
	return e, nil
}
