package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"unsafe"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/anybox/box"
)

type sample struct {
	name string
	set  func(*box.Box)
}

func samples() []sample {
	n := 7
	return []sample{
		{"bool", func(b *box.Box) { box.Set(b, true) }},
		{"int64", func(b *box.Box) { box.Set(b, int64(-1)) }},
		{"float64", func(b *box.Box) { box.Set(b, 1.5) }},
		{"complex128", func(b *box.Box) { box.Set(b, complex(1, 2)) }},
		{"[4]float32", func(b *box.Box) { box.Set(b, [4]float32{1, 2, 3, 4}) }},
		{"string", func(b *box.Box) { box.Set(b, "hi") }},
		{"[]byte", func(b *box.Box) { box.Set(b, []byte("abc")) }},
		{"*int", func(b *box.Box) { box.Set(b, &n) }},
		{"any", func(b *box.Box) { box.Set[any](b, 42) }},
		{"func()", func(b *box.Box) { box.Set(b, func() {}) }},
		{"map", func(b *box.Box) { box.Set(b, map[string]int{}) }},
		{"null", func(b *box.Box) { box.SetNull(b) }},
		{"Vector", func(b *box.Box) { box.Set(b, Vector{3, 4}) }},
		{"Counter", func(b *box.Box) { box.Set(b, Counter{Name: "c"}) }},
		{fmt.Sprintf("[%d]byte", box.StorageSize), func(b *box.Box) { box.Set(b, [box.StorageSize]byte{}) }},
		{fmt.Sprintf("[%d]byte", box.StorageSize+1), func(b *box.Box) { box.Set(b, [box.StorageSize + 1]byte{}) }},
	}
}

type layoutRow struct {
	Name     string
	Type     string
	Size     uintptr
	Category string
	Regime   string
	Raw      string
}

func layoutRows() []layoutRow {
	var rows []layoutRow
	for _, s := range samples() {
		var b box.Box
		s.set(&b)

		regime := "overflow"
		if b.Inline() {
			regime = "inline"
		}
		rows = append(rows, layoutRow{
			Name:     s.name,
			Type:     b.StaticType().String(),
			Size:     b.StaticType().Size(),
			Category: b.Category().String(),
			Regime:   regime,
			Raw:      rawHex(b.Raw()),
		})
		b.Clear()
	}
	return rows
}

// rawHex prints the storage one word per group; pointer slots are masked.
func rawHex(raw []byte) string {
	w := int(unsafe.Sizeof(uintptr(0)))
	out := ""
	for i := 0; i < len(raw); i += w {
		if i > 0 {
			out += " "
		}
		if i < 2*w && !allZero(raw[i:i+w]) {
			out += "<ptr>"
			continue
		}
		out += hex.EncodeToString(raw[i : i+w])
	}
	return out
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func newLayoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show storage capacity and the regime of sample types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderLayout(cmd.OutOrStdout(), a.opts.plain)
		},
	}
}

func renderLayout(w io.Writer, plain bool) error {
	header := fmt.Sprintf("storage: %d bytes + 2 pointer slots (%d-byte words)", box.StorageSize, unsafe.Sizeof(uintptr(0)))
	if !plain {
		header = titleStyle.Render("box layout") + " " + header
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w)

	rows := layoutRows()
	t := table.New().
		Headers("SAMPLE", "TYPE", "SIZE", "CATEGORY", "REGIME", "STORAGE")
	for _, r := range rows {
		t.Row(r.Name, r.Type, fmt.Sprint(r.Size), r.Category, r.Regime, r.Raw)
	}

	if plain {
		t.Border(lipgloss.HiddenBorder())
	} else {
		t.Border(lipgloss.RoundedBorder()).
			BorderStyle(helpStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 4 && row >= 0 && row < len(rows) && rows[row].Regime == "overflow" {
					return cellStyle.Inherit(errorStyle)
				}
				return cellStyle
			})
	}

	fmt.Fprintln(w, t.Render())
	return nil
}
