package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/errors"
)

// probeFile is the YAML document read by the probe command:
//
//	scenarios:
//	  - name: widen
//	    type: int32
//	    value: 123
//	    as: [float64, int8, string]
type probeFile struct {
	Scenarios []scenario `yaml:"scenarios"`
}

type scenario struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
	As    []string  `yaml:"as"`
}

type probeResult struct {
	Scenario string
	Stored   string
	Regime   string
	As       string
	Value    string
	Err      error
}

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe FILE",
		Short: "Store values and read them back as other types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := loadProbe(args[0])
			if err != nil {
				return err
			}
			results, err := runProbe(pf)
			if err != nil {
				return err
			}
			renderProbe(cmd.OutOrStdout(), results, a.opts.plain)
			return nil
		},
	}
}

func loadProbe(path string) (*probeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading probe file %s: %w", path, err)
	}
	return parseProbe(data, path)
}

// parseProbe parses probe YAML. The path is used only for error messages.
func parseProbe(data []byte, path string) (*probeFile, error) {
	var pf probeFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(pf.Scenarios) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, path+": no scenarios")
	}
	for i := range pf.Scenarios {
		sc := &pf.Scenarios[i]
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if sc.Type == "" {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(path, sc.Name).
				Detail("type is required").
				Build()
		}
		if len(sc.As) == 0 {
			return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(path, sc.Name).
				Detail("as must list at least one type").
				Build()
		}
	}
	return &pf, nil
}

func runProbe(pf *probeFile) ([]probeResult, error) {
	var results []probeResult
	for _, sc := range pf.Scenarios {
		var b box.Box
		if err := store(&b, sc); err != nil {
			return nil, err
		}

		regime := "overflow"
		if b.Inline() {
			regime = "inline"
		}

		for _, as := range sc.As {
			r := probeResult{
				Scenario: sc.Name,
				Stored:   b.StaticType().String(),
				Regime:   regime,
				As:       as,
			}
			t, err := parseType(as)
			if err != nil {
				return nil, err
			}
			v, err := box.GetValue(&b, t)
			if err != nil {
				r.Err = err
			} else {
				r.Value = formatValue(v)
			}
			results = append(results, r)
		}
		b.Clear()
	}
	return results, nil
}

func store(b *box.Box, sc scenario) error {
	t, err := parseType(sc.Type)
	if err != nil {
		return err
	}
	if t == reflect.TypeFor[box.Null]() {
		box.SetNull(b)
		return nil
	}

	v := reflect.New(t)
	if !sc.Value.IsZero() {
		if err := sc.Value.Decode(v.Interface()); err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path(sc.Name).
				Requested(t.String()).
				Detail("decoding value").
				Cause(err).
				Build()
		}
	}
	box.SetValue(b, v.Elem())
	return nil
}

func formatValue(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case box.RawSlice:
		return fmt.Sprintf("raw{len=%d elem=%v bytes=%d}", x.Len, x.Elem, x.Bytes())
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func renderProbe(w io.Writer, results []probeResult, plain bool) {
	t := table.New().Headers("SCENARIO", "STORED", "REGIME", "AS", "RESULT")
	for _, r := range results {
		res := r.Value
		if r.Err != nil {
			res = "error: " + r.Err.Error()
		}
		t.Row(r.Scenario, r.Stored, r.Regime, r.As, res)
	}

	if plain {
		t.Border(lipgloss.HiddenBorder())
	} else {
		t.Border(lipgloss.RoundedBorder()).
			BorderStyle(helpStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 4 && row >= 0 && row < len(results) && results[row].Err != nil:
					return cellStyle.Inherit(errorStyle)
				case col == 4:
					return cellStyle.Inherit(resultStyle)
				}
				return cellStyle
			})
	}
	fmt.Fprintln(w, t.Render())
}
