// Command sqlforge compiles query descriptions and runs them against the
// configured databases.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	// Database drivers selectable from sqlforge.yaml.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/syssam/sqlforge/internal/config"
)

// Context is passed to every command.
type Context struct {
	Config  string
	Verbose bool
	Logger  *slog.Logger
	Stdout  io.Writer
}

// CLI is the command line of sqlforge.
type CLI struct {
	Config  string `short:"c" help:"Configuration file" default:"${config}" type:"path"`
	Verbose bool   `short:"v" help:"Log every statement sent to a database"`

	Compile  CompileCmd  `cmd:"" help:"Compile a YAML query description and print the SQL"`
	Demo     DemoCmd     `cmd:"" help:"Run the accounts walkthrough against every configured database"`
	Dialects DialectsCmd `cmd:"" help:"List the dialects and their column types"`
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sqlforge"),
		kong.Description("Dialect-agnostic SQL statement compiler."),
		kong.UsageOnError(),
		kong.Vars{"config": config.DefaultFile},
	)
	logger := newLogger(os.Stderr, cli.Verbose)
	slog.SetDefault(logger)
	err := ctx.Run(&Context{
		Config:  cli.Config,
		Verbose: cli.Verbose,
		Logger:  logger,
		Stdout:  os.Stdout,
	})
	ctx.FatalIfErrorf(err)
}
