package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/schema/field"
)

var dialectNameFmt = color.New(color.FgBlue, color.Bold).SprintFunc()

// DialectsCmd prints the column type of every logical type per dialect.
type DialectsCmd struct {
	Length int `help:"Length used for sized types" default:"255"`
}

// Run executes the dialects command.
func (c *DialectsCmd) Run(ctx *Context) error {
	for _, name := range dialect.Names() {
		d, err := sql.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "%s (auto increment: %s)\n", dialectNameFmt(d.Name()), d.AutoIncrement())
		w := tabwriter.NewWriter(ctx.Stdout, 0, 4, 2, ' ', 0)
		for _, t := range field.Types() {
			plain, err := d.TypeName(t, 0)
			if err != nil {
				return err
			}
			sized, err := d.TypeName(t, c.Length)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", t, plain, sized)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
