package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/unirank/internal/domain/university"
)

const defaultTable = "universities"

// PostgresStore keeps each university as a JSONB document in a single table:
//
//	CREATE TABLE universities (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)
//
// Sorting only orders numeric values; anything else sorts like null, first
// when ascending. Ties fall back to insertion order (id).
type PostgresStore struct {
	db    *sql.DB
	table string
}

// OpenPostgres opens a connection pool for dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrPing, err)
	}
	return db, nil
}

// NewPostgres creates a PostgresStore on an open pool.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, table: defaultTable}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the documents table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, doc JSONB NOT NULL)`, s.ident())
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert stores records in one transaction, preserving their order.
func (s *PostgresStore) Insert(ctx context.Context, records ...university.Record) (err error) {
	ctx, end := startSpan(ctx, "insert", s.table)
	defer func() { end(err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1)`, s.ident()))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		doc, mErr := json.Marshal(rec)
		if mErr != nil {
			return fmt.Errorf("marshal record: %w", mErr)
		}
		if _, err = stmt.ExecContext(ctx, doc); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

// Find implements Store.
func (s *PostgresStore) Find(ctx context.Context, q Query) (records []university.Record, err error) {
	ctx, end := startSpan(ctx, "find", s.table)
	defer func() { end(err) }()

	where, args := buildWhere(q.Filter, nil)
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT doc FROM %s%s ORDER BY ", s.ident(), where)
	if q.SortField != "" {
		args = append(args, q.SortField)
		n := len(args)
		dir := "ASC NULLS FIRST"
		if q.SortDir == Descending {
			dir = "DESC NULLS LAST"
		}
		fmt.Fprintf(&sb, "CASE WHEN jsonb_typeof(doc -> $%d::text) = 'number' THEN (doc ->> $%d::text)::numeric END %s, ", n, n, dir)
	}
	sb.WriteString("id ASC")
	if q.SkipN > 0 {
		args = append(args, q.SkipN)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}
	if q.LimitN > 0 {
		args = append(args, q.LimitN)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer func() { _ = rows.Close() }()

	records = make([]university.Record, 0)
	for rows.Next() {
		var doc []byte
		if err = rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQuery, err)
		}
		var rec university.Record
		if err = json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode: %w", ErrQuery, err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return records, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, f Filter) (n int, err error) {
	ctx, end := startSpan(ctx, "count", s.table)
	defer func() { end(err) }()

	where, args := buildWhere(f, nil)
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.ident(), where)
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCount, err)
	}
	return n, nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrPing, err)
	}
	return nil
}

func (s *PostgresStore) ident() string { return pq.QuoteIdentifier(s.table) }

// buildWhere renders f as a WHERE clause, appending its parameters to args.
func buildWhere(f Filter, args []any) (string, []any) {
	if len(f.Predicates) == 0 {
		return "", args
	}
	conds := make([]string, 0, len(f.Predicates))
	for _, p := range f.Predicates {
		switch p.Op {
		case OpExists:
			args = append(args, p.Field)
			n := len(args)
			conds = append(conds, fmt.Sprintf("(doc ? $%d::text AND doc -> $%d::text <> 'null'::jsonb)", n, n))
		case OpMatchFold:
			args = append(args, p.Field, "%"+escapeLike(p.Value)+"%")
			n := len(args)
			conds = append(conds, fmt.Sprintf("(doc ->> $%d::text ILIKE $%d)", n-1, n))
		default:
			conds = append(conds, "FALSE")
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func startSpan(ctx context.Context, op, table string) (context.Context, func(error)) {
	ctx, span := otel.Tracer("unirank/repository").Start(ctx, op+" "+table,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
			attribute.String("db.sql.table", table),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
