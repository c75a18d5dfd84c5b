package sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/syssam/sqlforge/dialect"
)

// QueryStats counts the statements sent through a StatsDriver. It is safe
// for concurrent use.
type QueryStats struct {
	queries atomic.Int64
	execs   atomic.Int64
	errors  atomic.Int64
	slow    atomic.Int64
	nanos   atomic.Int64
	kinds   [len(stmtNames)]atomic.Int64
}

// Stats returns a snapshot of the counters.
func (s *QueryStats) Stats() StatsSnapshot {
	snap := StatsSnapshot{
		Queries:  s.queries.Load(),
		Execs:    s.execs.Load(),
		Errors:   s.errors.Load(),
		Slow:     s.slow.Load(),
		Duration: time.Duration(s.nanos.Load()),
	}
	for k := range s.kinds {
		if n := s.kinds[k].Load(); n > 0 {
			if snap.ByKind == nil {
				snap.ByKind = make(map[StmtKind]int64)
			}
			snap.ByKind[StmtKind(k)] = n
		}
	}
	return snap
}

// Reset sets all counters to zero.
func (s *QueryStats) Reset() {
	for _, c := range []*atomic.Int64{&s.queries, &s.execs, &s.errors, &s.slow, &s.nanos} {
		c.Store(0)
	}
	for k := range s.kinds {
		s.kinds[k].Store(0)
	}
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	Queries  int64 // statements returning rows
	Execs    int64
	Errors   int64
	Slow     int64
	Duration time.Duration
	// ByKind counts statements by the kind their text starts with. Kinds
	// without statements are absent.
	ByKind map[StmtKind]int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	n := s.Queries + s.Execs
	if n == 0 {
		return 0
	}
	return s.Duration / time.Duration(n)
}

// String formats the snapshot as "queries=1 execs=2 ... kinds=[select:1 insert:2]".
func (s StatsSnapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "queries=%d execs=%d errors=%d slow=%d avg=%s kinds=[",
		s.Queries, s.Execs, s.Errors, s.Slow, s.AvgDuration())
	sep := ""
	for k := StmtSelect; int(k) < len(stmtNames); k++ {
		if n := s.ByKind[k]; n > 0 {
			fmt.Fprintf(&b, "%s%s:%d", sep, k, n)
			sep = " "
		}
	}
	b.WriteString("]")
	return b.String()
}

// kindOf returns the statement kind a compiled statement starts with.
func kindOf(query string) StmtKind {
	query = strings.TrimSpace(query)
	for k := StmtSelect; int(k) < len(stmtNames); k++ {
		name := stmtNames[k]
		if len(query) >= len(name) && strings.EqualFold(query[:len(name)], name) {
			return k
		}
	}
	return StmtInvalid
}

// SlowQueryHook is called when a statement runs longer than the slow
// threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver is a dialect.Driver decorator that counts statements and
// reports slow ones.
type StatsDriver struct {
	dialect.Driver
	stats     *QueryStats
	threshold atomic.Int64
	hook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement counts as
// slow. The default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold.Store(int64(d))
	}
}

// WithSlowQueryHook sets the callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.hook = hook
	}
}

// WithSlowQueryLog reports slow statements with slog.WarnContext.
func WithSlowQueryLog() StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		slog.WarnContext(ctx, "slow statement", "duration", duration, "query", query, "args", args)
	})
}

// NewStatsDriver wraps drv with statement statistics.
//
//	drv, _ := sql.Open("mysql", dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//	ex, _ := sql.NewExecutor(stats)
//	ex.Exec(ctx, sql.Delete().From("sessions").Where("expired", sql.OpEQ, true))
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv, stats: &QueryStats{}}
	s.threshold.Store(int64(100 * time.Millisecond))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the counters of the driver and its transactions.
func (s *StatsDriver) QueryStats() *QueryStats { return s.stats }

// SlowThreshold returns the current slow threshold.
func (s *StatsDriver) SlowThreshold() time.Duration {
	return time.Duration(s.threshold.Load())
}

// SetSlowThreshold changes the slow threshold. It may be called while
// statements are running.
func (s *StatsDriver) SetSlowThreshold(d time.Duration) {
	s.threshold.Store(int64(d))
}

// Exec implements dialect.ExecQuerier.
func (s *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	return s.observe(ctx, &s.stats.execs, query, args, func() error {
		return s.Driver.Exec(ctx, query, args, v)
	})
}

// Query implements dialect.ExecQuerier.
func (s *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	return s.observe(ctx, &s.stats.queries, query, args, func() error {
		return s.Driver.Query(ctx, query, args, v)
	})
}

// Tx starts a transaction whose statements are counted too.
func (s *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := s.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, stats: s}, nil
}

func (s *StatsDriver) observe(ctx context.Context, counter *atomic.Int64, query string, args any, run func() error) error {
	start := time.Now()
	err := run()
	elapsed := time.Since(start)

	counter.Add(1)
	s.stats.nanos.Add(int64(elapsed))
	if k := kindOf(query); k != StmtInvalid {
		s.stats.kinds[k].Add(1)
	}
	if err != nil {
		s.stats.errors.Add(1)
	}
	if elapsed <= s.SlowThreshold() {
		return err
	}
	s.stats.slow.Add(1)
	if s.hook != nil {
		argv, _ := args.([]any)
		s.hook(ctx, query, argv, elapsed)
	}
	return err
}

// StatsTx is a transaction started by a StatsDriver.
type StatsTx struct {
	dialect.Tx
	stats *StatsDriver
}

// Exec implements dialect.ExecQuerier.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	return tx.stats.observe(ctx, &tx.stats.stats.execs, query, args, func() error {
		return tx.Tx.Exec(ctx, query, args, v)
	})
}

// Query implements dialect.ExecQuerier.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	return tx.stats.observe(ctx, &tx.stats.stats.queries, query, args, func() error {
		return tx.Tx.Query(ctx, query, args, v)
	})
}

// DebugDriver is a dialect.Driver decorator that logs every statement
// with its arguments, and the transaction boundaries.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, ...any)
}

// DebugOption configures a DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets the log function. The default logs with
// slog.DebugContext.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps drv with statement logging.
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(ctx context.Context, v ...any) {
			slog.DebugContext(ctx, fmt.Sprint(v...), "dialect", drv.Dialect())
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DebugDriver) statement(ctx context.Context, verb, query string, args any) {
	d.log(ctx, fmt.Sprintf("%s: %s args: %v", verb, query, args))
}

// Exec implements dialect.ExecQuerier.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.statement(ctx, "exec", query, args)
	return d.Driver.Exec(ctx, query, args, v)
}

// Query implements dialect.ExecQuerier.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.statement(ctx, "query", query, args)
	return d.Driver.Query(ctx, query, args, v)
}

// Tx logs and starts a transaction.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, debug: d, ctx: ctx}, nil
}

// DebugTx is a transaction started by a DebugDriver. Commit and Rollback
// are logged with the context the transaction was started with.
type DebugTx struct {
	dialect.Tx
	debug *DebugDriver
	ctx   context.Context
}

// Exec implements dialect.ExecQuerier.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.debug.statement(ctx, "tx exec", query, args)
	return tx.Tx.Exec(ctx, query, args, v)
}

// Query implements dialect.ExecQuerier.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.debug.statement(ctx, "tx query", query, args)
	return tx.Tx.Query(ctx, query, args, v)
}

// Commit implements driver.Tx.
func (tx *DebugTx) Commit() error {
	tx.debug.log(tx.ctx, "commit transaction")
	return tx.Tx.Commit()
}

// Rollback implements driver.Tx.
func (tx *DebugTx) Rollback() error {
	tx.debug.log(tx.ctx, "rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
