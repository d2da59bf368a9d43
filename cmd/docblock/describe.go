package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/docblock/spec/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a report in a readable format",
		Example: `  docblock describe docblock-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# Summary

{{ printSummary . }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ printCode . }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ printDefault . }}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		if sym < 0 || sym >= len(report.Terminals) {
			return fmt.Sprintf("<terminal %v>", sym)
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		if sym < 0 || sym >= len(report.NonTerminals) {
			return fmt.Sprintf("<non-terminal %v>", sym)
		}
		return report.NonTerminals[sym].Name
	}

	symName := func(sym int) string {
		if sym >= 0 {
			return termName(sym)
		}
		return nonTermName(-sym - 1)
	}

	fns := template.FuncMap{
		"printSummary": func(report *spec.Report) string {
			leaves := 0
			for _, s := range report.States {
				if s.Leaf {
					leaves++
				}
			}
			return fmt.Sprintf("%v terminals, %v non-terminals, %v productions, %v states (%v leaf states)",
				len(report.Terminals), len(report.NonTerminals), len(report.Productions), len(report.States), leaves)
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v (kind %v)", term.Number, term.Name, term.Kind)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", symName(e))
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printCode": func(s *spec.State) string {
			if s.Leaf {
				return fmt.Sprintf(" (leaf, code %v)", s.Code)
			}
			if s.Code != s.Number {
				return fmt.Sprintf(" (code %v)", s.Code)
			}
			return ""
		},
		"printItem": func(item *spec.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			var b strings.Builder
			{
				fmt.Fprintf(&b, "%v", termName(reduce.LookAhead[0]))
				for _, a := range reduce.LookAhead[1:] {
					fmt.Fprintf(&b, ", %v", termName(a))
				}
			}
			if reduce.Production == 0 {
				return fmt.Sprintf("accept      on %v", b.String())
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, b.String())
		},
		"printDefault": func(s *spec.State) string {
			if s.DefaultAction < 0 {
				return "error  otherwise\n"
			}
			return fmt.Sprintf("reduce %4v otherwise\n", s.DefaultAction)
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
