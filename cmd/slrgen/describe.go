package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	verr "github.com/slrgen/slrgen/error"
	"github.com/slrgen/slrgen/specdata"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print a compiled grammar report in readable format",
		Example: `  slrgen describe grammar-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return verr.Wrap(args[0], err)
	}
	return writeDescription(os.Stdout, report)
}

func readReport(path string) (*specdata.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the report file %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	report := &specdata.Report{}
	if err := json.Unmarshal(d, report); err != nil {
		return nil, err
	}
	return report, nil
}

const descTemplate = `# {{ .Name }}

{{ printConflictSummary . }}

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
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem $ . }}
{{ end }}
{{ range .Shift -}}
{{ printShift $ . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce $ . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo $ . }}
{{ end }}
{{ range .Conflicts -}}
{{ printConflict $ . }}
{{ end -}}
{{ end }}`

func writeDescription(w io.Writer, report *specdata.Report) error {
	termName := func(r *specdata.Report, sym int) string {
		for _, t := range r.Terminals {
			if t.Number == sym {
				return t.Name
			}
		}
		return "$end"
	}
	nonTermName := func(r *specdata.Report, sym int) string {
		for _, n := range r.NonTerminals {
			if n.Number == sym {
				return n.Name
			}
		}
		return "$accept"
	}
	symName := func(r *specdata.Report, sym int, isTerminal func(int) bool) string {
		if isTerminal(sym) {
			return termName(r, sym)
		}
		return nonTermName(r, sym)
	}
	isTerm := func(r *specdata.Report, sym int) bool {
		for _, t := range r.Terminals {
			if t.Number == sym {
				return true
			}
		}
		return false
	}
	prodByNumber := func(r *specdata.Report, n int) *specdata.Production {
		for _, p := range r.Productions {
			if p.Number == n {
				return p
			}
		}
		return nil
	}

	fns := template.FuncMap{
		"printConflictSummary": func(r *specdata.Report) string {
			if r.ConflictCount == 0 {
				return "No conflict was detected."
			}
			if r.ConflictCount == 1 {
				return "1 conflict was detected."
			}
			return fmt.Sprintf("%d conflicts were detected.", r.ConflictCount)
		},
		"printTerminal": func(t *specdata.Terminal) string {
			prec, assoc := "-", "-"
			if t.Precedence != 0 {
				prec = fmt.Sprintf("%d", t.Precedence)
			}
			if t.Associativity != "" {
				assoc = t.Associativity
			}
			return fmt.Sprintf("%4d %2s %s %s", t.Number, prec, assoc, t.Name)
		},
		"printProduction": func(p *specdata.Production) string {
			prec, assoc := "-", "-"
			if p.Precedence != 0 {
				prec = fmt.Sprintf("%d", p.Precedence)
			}
			if p.Associativity != "" {
				assoc = p.Associativity
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermNameNum(report, p.LHS))
			if len(p.RHS) == 0 {
				b.WriteString(" ε")
			}
			for _, e := range p.RHS {
				fmt.Fprintf(&b, " %v", symNameNum(report, e))
			}
			return fmt.Sprintf("%4d %2s %s %v", p.Number, prec, assoc, b.String())
		},
		"printItem": func(r *specdata.Report, it *specdata.Item) string {
			p := prodByNumber(r, it.Production)
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(r, p.LHS))
			for i, e := range p.RHS {
				if i == it.Dot {
					b.WriteString(" ・")
				}
				fmt.Fprintf(&b, " %v", symName(r, e, func(s int) bool { return isTerm(r, s) }))
			}
			if it.Dot >= len(p.RHS) {
				b.WriteString(" ・")
			}
			return fmt.Sprintf("%4d %v", p.Number, b.String())
		},
		"printShift": func(r *specdata.Report, tr *specdata.Transition) string {
			return fmt.Sprintf("shift  %4d on %v", tr.State, termName(r, tr.Symbol))
		},
		"printReduce": func(r *specdata.Report, rd *specdata.Reduce) string {
			var la []string
			for _, a := range rd.LookAhead {
				la = append(la, termName(r, a))
			}
			return fmt.Sprintf("reduce %4d on %v", rd.Production, strings.Join(la, ", "))
		},
		"printGoTo": func(r *specdata.Report, tr *specdata.Transition) string {
			return fmt.Sprintf("goto   %4d on %v", tr.State, nonTermName(r, tr.Symbol))
		},
		"printConflict": func(r *specdata.Report, c *specdata.Conflict) string {
			if c.ShiftState != nil {
				return fmt.Sprintf("shift/reduce conflict (shift %d, reduce %d) on %v: %v [%s]",
					*c.ShiftState, c.Production, termName(r, c.Symbol), "shift wins by default", c.Category)
			}
			return fmt.Sprintf("reduce/reduce conflict (reduce %d) on %v [%s]",
				c.Production, termName(r, c.Symbol), c.Category)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, report)
}

// nonTermNameNum/symNameNum let printProduction resolve names without
// closing over the per-call report argument the range clause hides.
func nonTermNameNum(r *specdata.Report, sym int) string {
	for _, n := range r.NonTerminals {
		if n.Number == sym {
			return n.Name
		}
	}
	return "$accept"
}

func symNameNum(r *specdata.Report, sym int) string {
	for _, t := range r.Terminals {
		if t.Number == sym {
			return t.Name
		}
	}
	return nonTermNameNum(r, sym)
}
