// Package repository is the generic sqlx data access shared by every domain
// table. Columns are read from struct tags once per repository:
//
//	db     column name, or the alias when column is set
//	column source column of a joined table
//	table  owning table when it differs from the repository table
//	auto   "true" for columns the database fills (serial keys)
//
// Reads go to the read pool, writes and transactions to the write pool.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/shared/constant"
	"cowork/shared/dto"
	"cowork/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("refusing to run without a filter")
	errNothingToSet   = errors.New("update has no columns")
)

// TxFunc runs inside a transaction opened by WithTransaction.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.QueryerContext
	BindNamed(query string, arg any) (string, []any, error)
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// joiner is implemented by models that read columns from other tables.
type joiner interface {
	GetJoinQuery() string
}

type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	key     string
	join    string
	columns []column
	insert  string
}

func NewRepository[T any](entity, table, key string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertable := columnsOf[T](table)

	repo := Repository[T]{
		db:      db,
		otel:    otl,
		table:   table,
		entity:  entity,
		key:     key,
		columns: columns,
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
			table, strings.Join(insertable, ", "), strings.Join(insertable, ", :")),
	}

	if j, ok := any(zero).(joiner); ok {
		repo.join = j.GetJoinQuery()
	}

	return repo
}

func (repo *Repository[T]) span(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		constant.OtelRepositoryScopeName+"."+repo.entity+"."+op)
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s %s: %w", action, repo.entity, err)
}

// one runs a named query expected to yield a single row into dest.
func one(ctx context.Context, q queryer, dest any, query string, arg any) error {
	bound, args, err := q.BindNamed(query, arg)
	if err != nil {
		return fmt.Errorf("bind %q: %w", query, err)
	}

	return sqlx.GetContext(ctx, q, dest, bound, args...) //nolint:wrapcheck
}

func many(ctx context.Context, q queryer, dest any, query string, arg any) error {
	bound, args, err := q.BindNamed(query, arg)
	if err != nil {
		return fmt.Errorf("bind %q: %w", query, err)
	}

	return sqlx.SelectContext(ctx, q, dest, bound, args...) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.span(ctx, "Insert")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, repo.insert)

	if _, err := repo.db.Write.NamedExecContext(ctx, repo.insert, model); err != nil {
		return repo.fail(scope, "insert", err)
	}

	return nil
}

// InsertReturningID inserts the model and returns the generated primary key.
func (repo *Repository[T]) InsertReturningID(ctx context.Context, model T) (int64, error) {
	return repo.insertReturningID(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTxReturningID(ctx context.Context, tx *sqlx.Tx, model T) (int64, error) {
	return repo.insertReturningID(ctx, tx, model)
}

func (repo *Repository[T]) insertReturningID(ctx context.Context, q queryer, model T) (id int64, err error) {
	ctx, scope := repo.span(ctx, "InsertReturningID")
	defer scope.End()

	query := repo.insert + " RETURNING " + repo.key
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = one(ctx, q, &id, query, model); err != nil {
		return 0, repo.fail(scope, "insert", err)
	}

	return id, nil
}

// WithTransaction runs fn in a write transaction. The transaction is committed when fn
// returns nil and rolled back on error or panic.
func (repo *Repository[T]) WithTransaction(ctx context.Context, fn TxFunc) (err error) {
	ctx, scope := repo.span(ctx, "WithTransaction")
	defer scope.End()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		return repo.fail(scope, "begin transaction for", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		scope.TraceError(err)

		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return repo.fail(scope, "commit transaction for", err)
	}

	return nil
}

// Get returns the zero model when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.span(ctx, "Get")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s%s", repo.selectColumns(columns...), repo.table, repo.join, where)

	return repo.get(ctx, scope, repo.db.Read, query, args)
}

// GetForUpdateTx reads one row inside tx and locks it until the transaction ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.span(ctx, "GetForUpdateTx")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		var zero T

		return zero, errRequiredFilter
	}

	return repo.get(ctx, scope, tx, repo.lockingSelect(where), args)
}

// GetAllForUpdateTx reads every matching row inside tx, oldest key first, and locks them
// until the transaction ends.
func (repo *Repository[T]) GetAllForUpdateTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := repo.span(ctx, "GetAllForUpdateTx")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return nil, errRequiredFilter
	}

	query := repo.lockingSelect(fmt.Sprintf("%s ORDER BY %s.%s", where, repo.table, repo.key))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}
	if err := many(ctx, tx, &models, query, args); err != nil {
		return nil, repo.fail(scope, "lock", err)
	}

	return models, nil
}

func (repo *Repository[T]) get(ctx context.Context, scope otel.Scope, q queryer, query string, args map[string]any) (T, error) {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := one(ctx, q, &model, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get", err)
	}

	return model, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.span(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool
	if err := one(ctx, repo.db.Read, &exist, query, args); err != nil {
		return false, repo.fail(scope, "check existence of", err)
	}

	return exist, nil
}

// GetAll pages through matching rows. Unknown sort keys are ignored and the
// primary key always breaks ties so pages are stable.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.span(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s %s%s", repo.selectColumns(columns...), repo.table, repo.join, where)

	if sortBy := repo.sortColumn(params.SortBy); sortBy != "" && dto.IsSortDir(params.SortDir) {
		fmt.Fprintf(&query, " ORDER BY %s %s, %s.%s %s", sortBy, params.SortDir, repo.table, repo.key, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		query.WriteString(" LIMIT :limit OFFSET :offset")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query.String())

	models := []T{}
	if err := many(ctx, repo.db.Read, &models, query.String(), args); err != nil {
		return nil, repo.fail(scope, "list", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.span(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s%s", repo.table, repo.key, repo.table, repo.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := one(ctx, repo.db.Read, &count, query, args); err != nil {
		return 0, repo.fail(scope, "count", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, tx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, filter dto.FilterGroup) error {
	ctx, scope := repo.span(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := "DELETE FROM " + repo.table + where
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, fields, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, tx, fields, filter)
}

// update sets fields on every matching row. Assignments bind under a set_
// prefix so they never collide with filter arguments of the same column.
func (repo *Repository[T]) update(ctx context.Context, exec execer, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.span(ctx, "Update")
	defer scope.End()

	if len(fields) == 0 {
		return errNothingToSet
	}

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	slices.Sort(names)

	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = name + " = :set_" + name
		args["set_"+name] = fields[name]
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update", err)
	}

	return nil
}
