package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterIsNull            = "is_null"
	FilterIsNotNull         = "is_not_null"
	// FilterPlainQuery embeds Value verbatim. Never feed it request input.
	FilterPlainQuery = "plain"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Filter renders one named-parameter predicate for sqlx. ArgName defaults to Field and
// must be unique within a group.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq like in less_eq greater_eq is_null is_not_null"`
	Table    string
}

func Eq(table, field string, value any) Filter {
	return Filter{Table: table, Field: field, Value: value, Operator: FilterOperatorEq}
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) arg() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	if symbol, ok := comparisons[f.Operator]; ok {
		args[f.arg()] = f.Value

		return f.column() + " " + symbol + " :" + f.arg(), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[f.arg()] = fmt.Sprintf("%%%v%%", f.Value)

		return "LOWER(" + f.column() + ") LIKE LOWER(:" + f.arg() + ")", args
	case FilterOperatorIn:
		return f.in(args), args
	case FilterIsNull:
		return f.column() + " IS NULL", args
	case FilterIsNotNull:
		return f.column() + " IS NOT NULL", args
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return "(" + query + ")", args
	}

	return "", args
}

// in expands a slice into one placeholder per element. A scalar degrades to equality
// and an empty slice matches nothing.
func (f *Filter) in(args map[string]any) string {
	values := reflect.ValueOf(f.Value)
	if kind := values.Kind(); kind != reflect.Slice && kind != reflect.Array {
		args[f.arg()] = f.Value

		return f.column() + " = :" + f.arg()
	}

	if values.Len() == 0 {
		return "FALSE"
	}

	placeholders := make([]string, values.Len())
	for i := range values.Len() {
		name := fmt.Sprintf("%s_%d", f.arg(), i)
		args[name] = values.Index(i).Interface()
		placeholders[i] = ":" + name
	}

	return f.column() + " IN (" + strings.Join(placeholders, ", ") + ")"
}

// FilterGroup joins filters and nested groups with Operator, AND when unset.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func And(filters ...any) FilterGroup {
	return FilterGroup{Filters: filters, Operator: FilterGroupOperatorAnd}
}

func (f *FilterGroup) Add(filter any) {
	f.Filters = append(f.Filters, filter)
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	parts := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		where, arg := clauseOf(item)
		if where == "" {
			continue
		}

		parts = append(parts, where)
		maps.Copy(args, arg)
	}

	if len(parts) == 0 {
		return "", args
	}

	joiner := FilterGroupOperatorAnd
	if f.Operator != "" {
		joiner = f.Operator
	}

	return "(" + strings.Join(parts, " "+joiner+" ") + ")", args
}

func clauseOf(item any) (string, map[string]any) {
	switch v := item.(type) {
	case Filter:
		return v.GetWhereClause()
	case FilterGroup:
		return v.GetWhereClause()
	}

	return "", nil
}
