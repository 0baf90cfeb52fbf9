package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Query selects rows of T.
type Query[T any] struct {
	Where          []Condition[T]
	OrderBy        []Order[T]
	Limit          uint64
	ForUpdate      bool
	IncludeDeleted bool
}

// BaseRepo provides typed CRUD over one table. Embed it in entity repositories.
// All statements run on the transaction in ctx when there is one.
type BaseRepo[T any] struct {
	txm    *TxManager
	schema *Schema[T]
	entity string
}

// NewBaseRepo creates a repository; entity names the row kind in not-found errors.
func NewBaseRepo[T any](txm *TxManager, schema *Schema[T], entity string) *BaseRepo[T] {
	return &BaseRepo[T]{txm: txm, schema: schema, entity: entity}
}

// Schema returns the column allowlist of the repository.
func (r *BaseRepo[T]) Schema() *Schema[T] { return r.schema }

// Querier returns the transaction or pool for ctx.
func (r *BaseRepo[T]) Querier(ctx context.Context) Querier { return r.txm.GetQuerier(ctx) }

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// rowValues keeps only the schema's columns of v.
func (r *BaseRepo[T]) rowValues(v *T) map[string]any {
	data := StructToMap(v)
	filtered := make(map[string]any, len(r.schema.columns))
	for _, col := range r.schema.columns {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}
	return filtered
}

// Insert writes one row using the "db" tags of v.
func (r *BaseRepo[T]) Insert(ctx context.Context, v *T) error {
	sql, args, err := r.Builder().Insert(r.schema.table).SetMap(r.rowValues(v)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.schema.table, err)
	}
	return nil
}

// InsertMany writes rows with one multi-values INSERT.
func (r *BaseRepo[T]) InsertMany(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	q, err := r.buildInsertMany(rows)
	if err != nil {
		return err
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.schema.table, err)
	}
	return nil
}

func (r *BaseRepo[T]) buildInsertMany(rows []T) (squirrel.InsertBuilder, error) {
	q := r.Builder().Insert(r.schema.table).Columns(r.schema.columns...)
	for i := range rows {
		data := StructToMap(&rows[i])
		vals := make([]any, len(r.schema.columns))
		for j, col := range r.schema.columns {
			val, ok := data[col]
			if !ok {
				return q, fmt.Errorf("row %d has no value for %s", i, col)
			}
			vals[j] = val
		}
		q = q.Values(vals...)
	}
	return q, nil
}

func (r *BaseRepo[T]) buildSelect(q Query[T]) (squirrel.SelectBuilder, error) {
	sb := r.Builder().Select(r.schema.columns...).From(r.schema.table)
	if r.schema.SoftDelete() && !q.IncludeDeleted {
		sb = sb.Where(squirrel.Eq{"deletion_mark": false})
	}
	for _, c := range q.Where {
		pred, err := c.sqlizer()
		if err != nil {
			return sb, err
		}
		sb = sb.Where(pred)
	}
	for _, o := range q.OrderBy {
		sb = sb.OrderBy(o.String())
	}
	if q.Limit > 0 {
		sb = sb.Limit(q.Limit)
	}
	if q.ForUpdate {
		sb = sb.Suffix("FOR UPDATE")
	}
	return sb, nil
}

// Find returns every row matching q.
func (r *BaseRepo[T]) Find(ctx context.Context, q Query[T]) ([]T, error) {
	sb, err := r.buildSelect(q)
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var out []T
	if err := pgxscan.Select(ctx, r.Querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.schema.table, err)
	}
	return out, nil
}

// FindOne returns the first row matching q, or NOT_FOUND.
func (r *BaseRepo[T]) FindOne(ctx context.Context, q Query[T]) (*T, error) {
	q.Limit = 1
	sb, err := r.buildSelect(q)
	if err != nil {
		return nil, err
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	out := new(T)
	if err := pgxscan.Get(ctx, r.Querier(ctx), out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entity, nil)
		}
		return nil, fmt.Errorf("get %s: %w", r.schema.table, err)
	}
	return out, nil
}

func (r *BaseRepo[T]) byID(entityID id.ID, lock bool) Query[T] {
	return Query[T]{
		Where:     []Condition[T]{Eq(r.schema.MustColumn("id"), entityID)},
		ForUpdate: lock,
	}
}

// Get retrieves a row by id.
func (r *BaseRepo[T]) Get(ctx context.Context, entityID id.ID) (*T, error) {
	out, err := r.FindOne(ctx, r.byID(entityID, false))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound(r.entity, entityID.String())
	}
	return out, err
}

// GetForUpdate retrieves a row by id and locks it until the transaction ends.
func (r *BaseRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (*T, error) {
	out, err := r.FindOne(ctx, r.byID(entityID, true))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound(r.entity, entityID.String())
	}
	return out, err
}

func (r *BaseRepo[T]) buildUpdate(entityID id.ID, values Values[T]) (squirrel.UpdateBuilder, error) {
	ub := r.Builder().Update(r.schema.table).Where(squirrel.Eq{"id": entityID})
	set := make(map[string]any, len(values))
	for col, v := range values {
		if col.IsZero() {
			return ub, fmt.Errorf("update with unresolved column")
		}
		if col.name == "id" || col.name == "version" {
			return ub, fmt.Errorf("column %s is managed by the repository", col.name)
		}
		set[col.name] = v
	}
	if len(set) == 0 {
		return ub, fmt.Errorf("update without values")
	}
	ub = ub.SetMap(set)
	if r.schema.Versioned() {
		ub = ub.Set("version", squirrel.Expr("version + 1"))
	}
	if _, given := set["updated_at"]; !given && r.schema.Has("updated_at") {
		ub = ub.Set("updated_at", squirrel.Expr("NOW()"))
	}
	return ub, nil
}

// Update sets the given columns of one row.
func (r *BaseRepo[T]) Update(ctx context.Context, entityID id.ID, values Values[T]) error {
	ub, err := r.buildUpdate(entityID, values)
	if err != nil {
		return err
	}
	sql, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entity, entityID.String())
	}
	return nil
}

// Save writes every mutable column of v, expecting the row to still be at version.
func (r *BaseRepo[T]) Save(ctx context.Context, entityID id.ID, version int, v *T) error {
	values := make(Values[T])
	for col, val := range r.rowValues(v) {
		switch col {
		case "id", "version", "created_at":
			continue
		}
		values[Column[T]{name: col}] = val
	}
	ub, err := r.buildUpdate(entityID, values)
	if err != nil {
		return err
	}
	if r.schema.Versioned() {
		ub = ub.Where(squirrel.Eq{"version": version})
	}
	sql, args, err := ub.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(r.entity, entityID.String())
	}
	return nil
}

// SoftDelete sets deletion_mark on one row.
func (r *BaseRepo[T]) SoftDelete(ctx context.Context, entityID id.ID) error {
	if !r.schema.SoftDelete() {
		return fmt.Errorf("%s does not support soft delete", r.schema.table)
	}
	return r.Update(ctx, entityID, Values[T]{r.schema.MustColumn("deletion_mark"): true})
}

// MaxInt returns COALESCE(MAX(col), 0) over the rows matching where.
func (r *BaseRepo[T]) MaxInt(ctx context.Context, col Column[T], where ...Condition[T]) (int64, error) {
	sb := r.Builder().Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", col.name)).From(r.schema.table)
	for _, c := range where {
		pred, err := c.sqlizer()
		if err != nil {
			return 0, err
		}
		sb = sb.Where(pred)
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max: %w", err)
	}
	var out int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&out); err != nil {
		return 0, fmt.Errorf("max %s.%s: %w", r.schema.table, col.name, err)
	}
	return out, nil
}

func (r *BaseRepo[T]) buildList(f domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := Query[T]{IncludeDeleted: f.IncludeDeleted}
	if len(f.IDs) > 0 {
		q.Where = append(q.Where, Eq(r.schema.MustColumn("id"), f.IDs))
	}
	for _, item := range f.Filters {
		cond, err := r.schema.Condition(item)
		if err != nil {
			return squirrel.SelectBuilder{}, err
		}
		q.Where = append(q.Where, cond)
	}
	sb, err := r.buildSelect(q)
	if err != nil {
		return sb, err
	}
	if f.Search != "" && len(r.schema.searchable) > 0 {
		pattern := "%" + f.Search + "%"
		or := squirrel.Or{}
		for _, c := range r.schema.searchable {
			or = append(or, squirrel.ILike{c: pattern})
		}
		sb = sb.Where(or)
	}
	return sb, nil
}

// List retrieves rows with filtering, ordering and pagination.
func (r *BaseRepo[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{Limit: f.Limit, Offset: f.Offset}

	sb, err := r.buildList(f)
	if err != nil {
		return result, err
	}

	countSQL, countArgs, err := r.Builder().Select("COUNT(*)").FromSelect(sb, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderExpr := f.OrderBy
	if orderExpr == "" {
		orderExpr = r.schema.defaultOrder
	}
	order, err := r.schema.ParseOrder(orderExpr)
	if err != nil {
		return result, err
	}
	for _, o := range order {
		sb = sb.OrderBy(o.String())
	}
	if f.Limit > 0 {
		sb = sb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		sb = sb.Offset(uint64(f.Offset))
	}

	sql, args, err := sb.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
