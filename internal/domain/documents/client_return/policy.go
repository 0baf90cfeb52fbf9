package client_return

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// RestockPolicy decides whether a returned line goes back to sellable stock.
type RestockPolicy interface {
	Restock(item Item, reason string) (bool, error)
}

// SellableOnly restocks exactly the lines in sellable condition.
type SellableOnly struct{}

func (SellableOnly) Restock(item Item, _ string) (bool, error) {
	return item.Condition == ConditionSellable, nil
}

// RulePolicy evaluates a boolean CEL expression over the variables
// condition (string), quantity (int) and reason (string).
type RulePolicy struct {
	source  string
	program cel.Program
}

// NewRulePolicy compiles expr, e.g. `condition == "sellable" && quantity < 100`.
func NewRulePolicy(expr string) (*RulePolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("condition", cel.StringType),
		cel.Variable("quantity", cel.IntType),
		cel.Variable("reason", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("restock rule env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile restock rule %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("restock rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program restock rule: %w", err)
	}
	return &RulePolicy{source: expr, program: prg}, nil
}

func (p *RulePolicy) String() string { return p.source }

func (p *RulePolicy) Restock(item Item, reason string) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{
		"condition": string(item.Condition),
		"quantity":  item.Quantity,
		"reason":    reason,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate restock rule: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("restock rule returned %T", out.Value())
	}
	return b, nil
}
