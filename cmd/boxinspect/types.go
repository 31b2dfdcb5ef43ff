package main

import (
	"fmt"
	"io"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/meta"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered types with their fields and methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTypes(cmd.OutOrStdout(), meta.Default(), a.opts.plain)
		},
	}
}

func listTypes(w io.Writer, r *meta.Registry, plain bool) error {
	for _, name := range r.Names() {
		t, err := r.Lookup(name)
		if err != nil {
			return err
		}

		var zero box.Box
		box.SetValue(&zero, reflect.Zero(t.Go))
		regime := "overflow"
		if zero.Inline() {
			regime = "inline"
		}
		zero.Clear()

		info := fmt.Sprintf("(%d bytes, %s)", t.Go.Size(), regime)
		fmt.Fprintf(w, "%s  %s\n", render(funcStyle, name, plain), render(helpStyle, info, plain))
		for _, f := range t.Fields {
			fmt.Fprintf(w, "  %-12s %s\n", f.Name, render(typeStyle, f.Type.String(), plain))
		}
		for _, m := range t.Methods {
			fmt.Fprintf(w, "  %s\n", m.Signature())
		}
		fmt.Fprintln(w)
	}
	return nil
}
