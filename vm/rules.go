package vm

// ParseFn is a Pratt-parser handler: a prefix handler consumes the token
// already in p.prev and emits its bytecode; an infix handler does the same
// assuming the left operand has already been compiled and left on the
// (conceptual, compile-time) stack.
type ParseFn = func(p *Parser, canAssign bool)

type ParseRule struct {
	Prefix, Infix ParseFn
	Prec
}

// parseRules maps every TokenType to its prefix/infix handlers and binding
// precedence. Token kinds with no entry (the zero ParseRule) have neither
// handler and PrecNone — includes the reserved-but-unimplemented keywords
// (fun, class, this, super, return), which the scanner still recognizes but
// which have no expression meaning in this subset of the language.
var parseRules []ParseRule

func init() {
	parseRules = []ParseRule{
		TLParen:       {(*Parser).grouping, nil, PrecNone},
		TMinus:        {(*Parser).unary, (*Parser).binary, PrecTerm},
		TPlus:         {nil, (*Parser).binary, PrecTerm},
		TSlash:        {nil, (*Parser).binary, PrecFactor},
		TStar:         {nil, (*Parser).binary, PrecFactor},
		TBang:         {(*Parser).unary, nil, PrecNone},
		TBangEqual:    {nil, (*Parser).binary, PrecEqual},
		TEqualEqual:   {nil, (*Parser).binary, PrecEqual},
		TGreater:      {nil, (*Parser).binary, PrecComp},
		TGreaterEqual: {nil, (*Parser).binary, PrecComp},
		TLess:         {nil, (*Parser).binary, PrecComp},
		TLessEqual:    {nil, (*Parser).binary, PrecComp},
		TIdent:        {(*Parser).var_, nil, PrecNone},
		TStr:          {(*Parser).str, nil, PrecNone},
		TNum:          {(*Parser).num, nil, PrecNone},
		TAnd:          {nil, (*Parser).and, PrecAnd},
		TFalse:        {(*Parser).lit, nil, PrecNone},
		TNil:          {(*Parser).lit, nil, PrecNone},
		TOr:           {nil, (*Parser).or, PrecOr},
		TTrue:         {(*Parser).lit, nil, PrecNone},
		TEOF:          {},
	}
}

// Prec is the Pratt parser's precedence ladder, low to high.
//
//go:generate stringer -type=Prec
type Prec int

const (
	PrecNone   Prec = iota
	PrecAssign      // =
	PrecOr          // or
	PrecAnd         // and
	PrecEqual       // == !=
	PrecComp        // < > <= >=
	PrecTerm        // + -
	PrecFactor      // * /
	PrecUnary       // ! -
	PrecCall        // . ()
	PrecPrimary
)

// rule looks up ty's ParseRule, defaulting to the zero value (no handlers,
// PrecNone) for any TokenType past the end of the table.
func rule(ty TokenType) ParseRule {
	if int(ty) >= len(parseRules) {
		return ParseRule{}
	}
	return parseRules[ty]
}
