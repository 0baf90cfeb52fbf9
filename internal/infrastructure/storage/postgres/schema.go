package postgres

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"backoffice/internal/core/apperror"
	"backoffice/internal/domain/filter"
)

// Column is a column name that was resolved against Schema[T].
// Columns can only be obtained from a schema, so a column of one entity
// cannot reach another entity's queries and no raw string reaches SQL.
type Column[T any] struct {
	name string
}

func (c Column[T]) String() string { return c.name }

// IsZero reports whether c was not obtained from a schema.
func (c Column[T]) IsZero() bool { return c.name == "" }

// Values maps columns to new values for dynamic updates.
type Values[T any] map[Column[T]]any

// Schema is the closed column set of one table, derived from the "db" tags of T.
type Schema[T any] struct {
	table        string
	columns      []string
	index        map[string]struct{}
	searchable   []string
	defaultOrder string
}

// SchemaOption tunes a schema at construction time.
type SchemaOption func(*schemaSettings)

type schemaSettings struct {
	searchable   []string
	defaultOrder string
}

// WithSearch names the columns matched by ListFilter.Search.
func WithSearch(cols ...string) SchemaOption {
	return func(s *schemaSettings) { s.searchable = cols }
}

// WithDefaultOrder sets the ORDER BY expression used when a list names none.
func WithDefaultOrder(expr string) SchemaOption {
	return func(s *schemaSettings) { s.defaultOrder = expr }
}

// NewSchema builds the schema of T for table.
// It panics when an option names a column T does not have: that is a wiring bug.
func NewSchema[T any](table string, opts ...SchemaOption) *Schema[T] {
	var settings schemaSettings
	for _, opt := range opts {
		opt(&settings)
	}

	cols := ExtractDBColumns[T]()
	s := &Schema[T]{
		table:   table,
		columns: cols,
		index:   make(map[string]struct{}, len(cols)),
	}
	for _, c := range cols {
		s.index[c] = struct{}{}
	}

	for _, c := range settings.searchable {
		s.MustColumn(c)
	}
	s.searchable = settings.searchable

	s.defaultOrder = settings.defaultOrder
	if s.defaultOrder == "" {
		s.defaultOrder = "id"
		if s.Has("created_at") {
			s.defaultOrder = "-created_at"
		}
	}
	if _, err := s.ParseOrder(s.defaultOrder); err != nil {
		panic(fmt.Sprintf("schema %s: %v", table, err))
	}
	return s
}

// Table returns the table name.
func (s *Schema[T]) Table() string { return s.table }

// Columns returns the column list in struct order.
func (s *Schema[T]) Columns() []string { return s.columns }

// Has reports whether name is one of the schema's columns.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// SoftDelete reports whether the table carries a deletion_mark.
func (s *Schema[T]) SoftDelete() bool { return s.Has("deletion_mark") }

// Versioned reports whether the table carries a version counter.
func (s *Schema[T]) Versioned() bool { return s.Has("version") }

// Column resolves an untrusted column name.
func (s *Schema[T]) Column(name string) (Column[T], error) {
	if !s.Has(name) {
		return Column[T]{}, apperror.NewValidation("unknown column").
			WithDetail("table", s.table).
			WithDetail("column", name)
	}
	return Column[T]{name: name}, nil
}

// MustColumn resolves a column known at compile time. It panics on unknown names.
func (s *Schema[T]) MustColumn(name string) Column[T] {
	c, err := s.Column(name)
	if err != nil {
		panic(fmt.Sprintf("schema %s: unknown column %q", s.table, name))
	}
	return c
}

// --- Conditions ---

// Condition is one WHERE clause over a schema column.
type Condition[T any] struct {
	col   Column[T]
	op    filter.ComparisonType
	value any
}

func Eq[T any](c Column[T], v any) Condition[T]    { return Condition[T]{c, filter.Equal, v} }
func NotEq[T any](c Column[T], v any) Condition[T] { return Condition[T]{c, filter.NotEqual, v} }
func Gt[T any](c Column[T], v any) Condition[T]    { return Condition[T]{c, filter.Greater, v} }
func Lt[T any](c Column[T], v any) Condition[T]    { return Condition[T]{c, filter.Less, v} }
func IsNull[T any](c Column[T]) Condition[T]       { return Condition[T]{c, filter.IsNull, nil} }

// Condition resolves a caller-supplied filter row.
func (s *Schema[T]) Condition(item filter.Item) (Condition[T], error) {
	col, err := s.Column(item.Field)
	if err != nil {
		return Condition[T]{}, err
	}
	if !item.Operator.Valid() {
		return Condition[T]{}, apperror.NewValidation("unknown filter operator").
			WithDetail("operator", string(item.Operator))
	}
	return Condition[T]{col: col, op: item.Operator, value: item.Value}, nil
}

func (c Condition[T]) sqlizer() (squirrel.Sqlizer, error) {
	if c.col.IsZero() {
		return nil, fmt.Errorf("condition without column")
	}
	field := c.col.name
	switch c.op {
	case filter.Equal, filter.InList:
		return squirrel.Eq{field: c.value}, nil
	case filter.NotEqual, filter.NotInList:
		return squirrel.NotEq{field: c.value}, nil
	case filter.Less:
		return squirrel.Lt{field: c.value}, nil
	case filter.LessOrEqual:
		return squirrel.LtOrEq{field: c.value}, nil
	case filter.Greater:
		return squirrel.Gt{field: c.value}, nil
	case filter.GreaterOrEqual:
		return squirrel.GtOrEq{field: c.value}, nil
	case filter.IsNull:
		return squirrel.Eq{field: nil}, nil
	case filter.IsNotNull:
		return squirrel.NotEq{field: nil}, nil
	case filter.Contains:
		return squirrel.ILike{field: fmt.Sprintf("%%%v%%", c.value)}, nil
	case filter.NotContains:
		return squirrel.NotILike{field: fmt.Sprintf("%%%v%%", c.value)}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q", c.op)
}

// --- Ordering ---

// Order is one ORDER BY term.
type Order[T any] struct {
	col  Column[T]
	desc bool
}

func Asc[T any](c Column[T]) Order[T]  { return Order[T]{col: c} }
func Desc[T any](c Column[T]) Order[T] { return Order[T]{col: c, desc: true} }

func (o Order[T]) String() string {
	if o.desc {
		return o.col.name + " DESC"
	}
	return o.col.name + " ASC"
}

// ParseOrder resolves "col,-other" into order terms; "-" means descending.
func (s *Schema[T]) ParseOrder(expr string) ([]Order[T], error) {
	var out []Order[T]
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		col, err := s.Column(strings.TrimPrefix(part, "-"))
		if err != nil {
			return nil, err
		}
		out = append(out, Order[T]{col: col, desc: desc})
	}
	return out, nil
}
