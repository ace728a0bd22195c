// Package condition evaluates boolean branch expressions against the
// attribute map of a message node.
package condition

import "github.com/Knetic/govaluate"

// Evaluate parses and evaluates a condition expression against the
// given symbol table. It is pure and deterministic: the same expression
// and symbols always produce the same result.
//
// Failures are reported as distinct kinds: *SyntaxError when the
// expression does not parse, *SymbolError when it references a name
// absent from the symbol table, and *TypeError when it produces a
// non-boolean value. There is no truthiness coercion.
func Evaluate(expression string, symbols map[string]any) (bool, error) {
	parsed, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return false, &SyntaxError{Expression: expression, Reason: err.Error()}
	}

	for _, name := range parsed.Vars() {
		if _, ok := symbols[name]; !ok {
			return false, &SymbolError{Expression: expression, Symbol: name}
		}
	}

	result, err := parsed.Evaluate(symbols)
	if err != nil {
		return false, &SyntaxError{Expression: expression, Reason: err.Error()}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &TypeError{Expression: expression, Result: result}
	}

	return matched, nil
}
