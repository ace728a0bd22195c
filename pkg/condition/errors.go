package condition

import "fmt"

// SyntaxError indicates an expression that failed to parse or evaluate.
type SyntaxError struct {
	Expression string
	Reason     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in condition %q: %s", e.Expression, e.Reason)
}

// SymbolError indicates an expression referencing a name absent from
// the symbol table.
type SymbolError struct {
	Expression string
	Symbol     string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol resolution error in condition %q: unknown symbol %q", e.Expression, e.Symbol)
}

// TypeError indicates an expression that produced a non-boolean result.
type TypeError struct {
	Expression string
	Result     any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("condition %q produced non-boolean result %v", e.Expression, e.Result)
}
