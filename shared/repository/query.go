package repository

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"cowork/shared/dto"
)

// column is one entry of the SELECT list. alias is set for joined columns that
// are renamed to avoid clashing with the repository's own columns.
type column struct {
	name  string
	table string
	alias string
}

func (c column) qualified() string {
	return c.table + "." + c.name
}

func (c column) selectExpr() string {
	if c.alias == "" {
		return c.qualified()
	}

	return c.qualified() + " AS " + c.alias
}

// key is the name the column is exposed under, in results and sort_by.
func (c column) key() string {
	if c.alias != "" {
		return c.alias
	}

	return c.name
}

func columnsOf[T any](table string) (columns []column, insertable []string) {
	walkFields(reflect.TypeFor[T](), func(field reflect.StructField) {
		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			return
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		col := column{name: name, table: owner}
		if source := field.Tag.Get("column"); source != "" {
			col = column{name: source, table: owner, alias: name}
		}

		columns = append(columns, col)

		if owner == table && field.Tag.Get("auto") != "true" {
			insertable = append(insertable, name)
		}
	})

	return columns, insertable
}

// walkFields visits exported fields depth first, flattening embedded structs.
func walkFields(typ reflect.Type, visit func(reflect.StructField)) {
	for i := range typ.NumField() {
		field := typ.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			walkFields(field.Type, visit)

			continue
		}

		if field.IsExported() {
			visit(field)
		}
	}
}

// selectColumns renders the SELECT list, limited to only when given.
func (repo *Repository[T]) selectColumns(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.key()) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

// sortColumn resolves a client supplied sort key to a qualified column. Unknown keys
// resolve to "" so they never reach the query text.
func (repo *Repository[T]) sortColumn(sortBy string) string {
	if sortBy == "" {
		return ""
	}

	for _, col := range repo.columns {
		if col.key() == sortBy {
			return col.qualified()
		}
	}

	return ""
}

// lockingSelect reads full rows and locks them. tail carries the WHERE and ORDER BY
// clauses. Joined tables stay unlocked.
func (repo *Repository[T]) lockingSelect(tail string) string {
	return fmt.Sprintf("SELECT %s FROM %s %s%s FOR UPDATE OF %s", repo.selectColumns(), repo.table, repo.join, tail, repo.table)
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}
