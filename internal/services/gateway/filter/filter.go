// Package filter translates AIP-160 quest filters into SQL conditions.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// QuestDeclarations declares the fields a quest filter may reference.
func QuestDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("category", filtering.TypeString),
		filtering.DeclareIdent("status", filtering.TypeString),
		filtering.DeclareIdent("points_reward", filtering.TypeInt),
		filtering.DeclareIdent("currency_reward", filtering.TypeInt),
		filtering.DeclareIdent("expires_at", filtering.TypeTimestamp),
	)
}

// SQLCondition is a WHERE fragment and its positional parameters.
type SQLCondition struct {
	Clause string
	Params []any
}

// Columns maps each filter field to the SQL expression it compares against.
type Columns map[string]string

// QuestColumns matches the quest listing query of the SQLite store.
var QuestColumns = Columns{
	"category":        "q.category",
	"status":          "COALESCE(uq.status, 'available')",
	"points_reward":   "q.points_reward",
	"currency_reward": "q.currency_reward",
	"expires_at":      "q.expires_at",
}

var comparisons = map[string]string{
	filtering.FunctionEquals:        "=",
	filtering.FunctionNotEquals:     "!=",
	filtering.FunctionLessThan:      "<",
	filtering.FunctionLessEquals:    "<=",
	filtering.FunctionGreaterThan:   ">",
	filtering.FunctionGreaterEquals: ">=",
}

// ParseQuestFilter parses raw and translates it against columns. A blank
// filter yields an empty condition.
func ParseQuestFilter(raw string, columns Columns) (SQLCondition, error) {
	if strings.TrimSpace(raw) == "" {
		return SQLCondition{}, nil
	}
	decls, err := QuestDeclarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(raw, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	return translator{columns: columns}.expr(parsed.CheckedExpr.GetExpr())
}

type translator struct {
	columns Columns
}

func (t translator) expr(e *expr.Expr) (SQLCondition, error) {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	fn, args := call.CallExpr.GetFunction(), call.CallExpr.GetArgs()
	switch fn {
	case filtering.FunctionAnd, filtering.FunctionOr:
		return t.join(fn, args)
	case filtering.FunctionNot:
		if len(args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := t.expr(args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	}
	if op, ok := comparisons[fn]; ok {
		return t.compare(op, args)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", fn)
}

func (t translator) join(fn string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) < 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", fn)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		part, err := t.expr(arg)
		if err != nil {
			return SQLCondition{}, err
		}
		clauses = append(clauses, part.Clause)
		params = append(params, part.Params...)
	}
	return SQLCondition{Clause: "(" + strings.Join(clauses, " "+fn+" ") + ")", Params: params}, nil
}

func (t translator) compare(op string, args []*expr.Expr) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	field := ident.IdentExpr.GetName()
	column, ok := t.columns[field]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", field)
	}
	value, err := constant(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{Clause: fmt.Sprintf("%s %s ?", column, op), Params: []any{value}}, nil
}

func constant(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		switch c := kind.ConstExpr.GetConstantKind().(type) {
		case *expr.Constant_StringValue:
			return c.StringValue, nil
		case *expr.Constant_Int64Value:
			return c.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return int64(c.Uint64Value), nil
		case *expr.Constant_DoubleValue:
			return c.DoubleValue, nil
		case *expr.Constant_BoolValue:
			return c.BoolValue, nil
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", c)
		}
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() != filtering.FunctionTimestamp || len(kind.CallExpr.GetArgs()) != 1 {
			return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
		}
		raw, err := constant(kind.CallExpr.GetArgs()[0])
		if err != nil {
			return nil, err
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("timestamp argument must be a string")
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp format: %s", s)
		}
		return ts.UTC().UnixMilli(), nil
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}
