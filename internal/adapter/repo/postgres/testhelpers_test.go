package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// assign copies vals into the scan destinations, converting named types.
func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan: want %d values, got %d", len(dest), len(vals))
	}
	for i, v := range vals {
		dv := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(dv.Type()) {
			rv = rv.Convert(dv.Type())
		}
		dv.Set(rv)
	}
	return nil
}

// rowStub implements pgx.Row
type rowStub struct {
	vals []any
	err  error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

// rowsStub implements pgx.Rows over a fixed set of rows.
type rowsStub struct {
	pgx.Rows
	data   [][]any
	i      int
	err    error
	closed bool
}

func (r *rowsStub) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}
func (r *rowsStub) Scan(dest ...any) error { return assign(dest, r.data[r.i-1]) }
func (r *rowsStub) Err() error             { return r.err }
func (r *rowsStub) Close()                 { r.closed = true }

type execCall struct {
	sql  string
	args []any
}

// txStub implements pgx.Tx recording Exec calls.
type txStub struct {
	pgx.Tx
	execs      []execCall
	execErr    error
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *txStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execs = append(t.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), t.execErr
}
func (t *txStub) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}
func (t *txStub) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// poolStub implements postgres.PgxPool for tests
type poolStub struct {
	execTag  string
	execErr  error
	execs    []execCall
	row      *rowStub
	rows     *rowsStub
	queryErr error
	queries  []execCall
	tx       *txStub
	beginErr error
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execs = append(p.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(p.execTag), p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	if p.row == nil {
		return rowStub{err: errors.New("no row configured")}
	}
	return *p.row
}

func (p *poolStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.rows == nil {
		return &rowsStub{}, nil
	}
	return p.rows, nil
}

func (p *poolStub) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	if p.tx == nil {
		p.tx = &txStub{}
	}
	return p.tx, nil
}

func intp(v int) *int { return &v }
