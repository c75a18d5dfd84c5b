package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/internal/config"
	"github.com/syssam/sqlforge/schema/field"
)

// ErrUnknownDatabase is returned when --only names a database that is not
// configured.
var ErrUnknownDatabase = errors.New("unknown database")

// DemoCmd creates an accounts table on every configured database and walks
// through select, insert, update and delete statements.
type DemoCmd struct {
	Only     []string      `help:"Run only the named databases"`
	Timeout  time.Duration `help:"Timeout for the whole run" default:"1m"`
	Parallel int           `help:"Number of databases processed at once" default:"4"`
	Keep     bool          `help:"Keep the accounts table after the run"`
}

// demoReport is the outcome of the walkthrough on one database.
type demoReport struct {
	Name     string
	Dialect  string
	Before   int
	Inserted int64
	Updated  int64
	Deleted  int64
	After    int
	Stats    *sql.StatsSnapshot
	Err      error
}

// Run executes the demo command.
func (c *DemoCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	names := cfg.Names()
	if len(c.Only) > 0 {
		for _, name := range c.Only {
			if !slices.Contains(names, name) {
				return fmt.Errorf("%w: %q", ErrUnknownDatabase, name)
			}
		}
		names = c.Only
	}

	runCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()
	reports := make([]demoReport, len(names))
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(max(c.Parallel, 1))
	for i, name := range names {
		g.Go(func() error {
			reports[i] = c.run(gctx, ctx, cfg, name)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range reports {
		printReport(ctx, r)
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}

func (c *DemoCmd) run(ctx context.Context, cli *Context, cfg *config.Config, name string) (r demoReport) {
	r.Name = name
	db := cfg.Databases[name]
	logger := cli.Logger.With("database", name)
	start := time.Now()
	defer func() {
		logger.Debug("demo finished", "duration", time.Since(start), "error", r.Err)
	}()

	dsn, err := db.DataSourceName()
	if err != nil {
		r.Err = err
		return r
	}
	drv, err := sql.Open(db.Driver, dsn)
	if err != nil {
		r.Err = err
		return r
	}
	defer drv.Close()
	r.Dialect = drv.Dialect()
	if r.Dialect == dialect.SQLite {
		// A second connection to an in-memory database sees an empty one.
		drv.DB().SetMaxOpenConns(1)
	}

	opts := []sql.StatsOption{
		sql.WithSlowQueryHook(func(ctx context.Context, query string, args []any, d time.Duration) {
			logger.WarnContext(ctx, "slow statement", "duration", d, "query", query, "args", args)
		}),
	}
	if cfg.SlowThreshold > 0 {
		opts = append(opts, sql.WithSlowThreshold(cfg.SlowThreshold))
	}
	stats := sql.NewStatsDriver(drv, opts...)
	defer func() {
		s := stats.QueryStats().Stats()
		r.Stats = &s
	}()
	var target dialect.Driver = stats
	if cfg.Debug || cli.Verbose {
		target = sql.NewDebugDriver(stats, sql.DebugWithLog(func(ctx context.Context, v ...any) {
			logger.DebugContext(ctx, fmt.Sprint(v...))
		}))
	}
	ex, err := sql.NewExecutor(target)
	if err != nil {
		r.Err = err
		return r
	}
	r.Err = c.walkthrough(ctx, ex, logger, &r)
	return r
}

func accountsTable() *sql.Query {
	return sql.CreateTable("accounts", true).
		Field("accountId", field.TypeInt64, sql.NotNull|sql.PrimaryKey|sql.AutoIncrement).
		FieldSize("name", field.TypeString, 64, sql.NotNull).
		FieldSize("email", field.TypeString, 128, 0).
		AddField(sql.FieldDef{Name: "balance", Type: field.TypeFloat64, Options: sql.NotNull, Default: 0}).
		Field("created", field.TypeTime, 0)
}

func (c *DemoCmd) walkthrough(ctx context.Context, ex *sql.Executor, logger *slog.Logger, r *demoReport) (err error) {
	if _, err := ex.Exec(ctx, accountsTable()); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if !c.Keep {
		defer func() {
			if _, derr := ex.Exec(ctx, sql.DropTable("accounts")); derr != nil {
				err = errors.Join(err, fmt.Errorf("drop table: %w", derr))
			}
		}()
	}
	if r.Before, err = countAccounts(ctx, ex); err != nil {
		return err
	}

	name := "account-" + uuid.NewString()
	tx, err := ex.Tx(ctx)
	if err != nil {
		return err
	}
	r.Inserted, err = tx.Exec(ctx, sql.InsertInto("accounts").
		Value("name", name).
		Value("email", name+"@example.com").
		Value("balance", 10.5).
		Value("created", time.Now().UTC().Truncate(time.Second)))
	if err != nil {
		return errors.Join(fmt.Errorf("insert: %w", err), tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Debug("inserted account", "name", name)

	renamed := "renamed-" + uuid.NewString()
	r.Updated, err = ex.Exec(ctx, sql.Update("accounts").
		Set("name", renamed).
		Set("balance", 20).
		Where("name", sql.OpEQ, name))
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	rows, err := ex.Query(ctx, sql.Select("accountId", "name", "balance").
		From("accounts").
		Where("name", sql.OpEQ, renamed).
		LimitCount(1))
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.ScanNamed(row); err != nil {
			rows.Close()
			return err
		}
		logger.Debug("selected account", "row", row)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return fmt.Errorf("select: %w", err)
	}

	r.Deleted, err = ex.Exec(ctx, sql.Delete().From("accounts").Where("name", sql.OpEQ, renamed))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	r.After, err = countAccounts(ctx, ex)
	return err
}

func countAccounts(ctx context.Context, ex *sql.Executor) (int, error) {
	rows, err := ex.Query(ctx, sql.Select("accountId").From("accounts"))
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

func printReport(ctx *Context, r demoReport) {
	if r.Err != nil {
		fmt.Fprintf(ctx.Stdout, "%s %s: %v\n", color.RedString("FAIL"), r.Name, r.Err)
		return
	}
	fmt.Fprintf(ctx.Stdout, "%s %s (%s): before=%d inserted=%d updated=%d deleted=%d after=%d\n",
		color.GreenString("OK"), r.Name, r.Dialect, r.Before, r.Inserted, r.Updated, r.Deleted, r.After)
	if r.Stats != nil {
		fmt.Fprintf(ctx.Stdout, "   %s\n", r.Stats)
	}
}
