package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/internal/querydoc"
)

var paramNameFmt = color.New(color.FgCyan).SprintFunc()

// CompileCmd compiles a query description for one dialect.
type CompileCmd struct {
	Dialect string `short:"d" help:"Target dialect" enum:"mysql,sqlite,postgres" default:"mysql"`
	Params  bool   `short:"p" help:"Render values as @pN parameters and list them"`
	File    string `arg:"" help:"YAML query description" type:"existingfile"`
}

// Run executes the compile command.
func (c *CompileCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read query description: %w", err)
	}
	q, err := querydoc.Parse(data)
	if err != nil {
		return err
	}
	d, err := sql.Lookup(c.Dialect)
	if err != nil {
		return err
	}
	stmt, err := sql.Compile(q, d, c.Params)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", c.File, err)
	}
	fmt.Fprintln(ctx.Stdout, stmt.Text)
	for _, p := range stmt.Params {
		fmt.Fprintf(ctx.Stdout, "%s\t%s\t%v\n", paramNameFmt(p.Name), p.Value.Kind(), p.Value.Interface())
	}
	return nil
}
