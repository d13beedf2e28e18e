package exprtree

// Operator enumerates the operators of the embedded expression language.
type Operator int

const (
	// Unary operators.
	OpNegative Operator = iota
	OpNot

	// Binary operators, in increasing source-precedence order within each
	// group.
	OpTimes
	OpDivide
	OpMod
	OpPlus
	OpMinus
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
	OpEquals
	OpNotEquals
	OpAnd
	OpOr
	// OpNullCoalesce is the binary "?:" operator: the left operand if it is
	// non-null, otherwise the right operand.
	OpNullCoalesce
)

var opTokens = map[Operator]string{
	OpNegative:     "-",
	OpNot:          "not",
	OpTimes:        "*",
	OpDivide:       "/",
	OpMod:          "%",
	OpPlus:         "+",
	OpMinus:        "-",
	OpLess:         "<",
	OpGreater:      ">",
	OpLessEq:       "<=",
	OpGreaterEq:    ">=",
	OpEquals:       "==",
	OpNotEquals:    "!=",
	OpAnd:          "and",
	OpOr:           "or",
	OpNullCoalesce: "?:",
}

// Token returns the operator's source token.
func (op Operator) Token() string {
	return opTokens[op]
}

func (op Operator) String() string {
	return opTokens[op]
}
