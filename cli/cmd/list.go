package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/varscan/scan"
)

// List prints every binding as "name = value", sorted by name.
type List struct {
	Where string `help:"Only list bindings for which the expression is true (fields: name, value, line)." short:"w"`
	Lines bool   `help:"Prefix each binding with its source line number."                                 short:"n"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// row is the environment a --where expression is evaluated against.
type row struct {
	Name  string `expr:"name"`
	Value string `expr:"value"`
	Line  int    `expr:"line"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	where, err := compileFilter(l.Where)
	if err != nil {
		return err
	}

	vars, err := loaderFrom(ctx).Load(ctx, l.Source)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	r := lipgloss.NewRenderer(w)
	nameStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	lineStyle := r.NewStyle().Faint(true)

	for b := range vars.Bindings() {
		ok, err := where.match(b)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if l.Lines {
			fmt.Fprint(w, lineStyle.Render(fmt.Sprintf("%d:", b.Line)), " ")
		}

		fmt.Fprintf(w, "%s = %s\n", nameStyle.Render(b.Name), b.Value)
	}

	return nil
}

// filter is a compiled --where expression. The zero filter matches all.
type filter struct {
	source  string
	program *vm.Program
}

func compileFilter(source string) (filter, error) {
	if source == "" {
		return filter{}, nil
	}

	program, err := expr.Compile(source, expr.Env(row{}), expr.AsBool())
	if err != nil {
		return filter{}, ErrFilter.
			With(slog.String("expr", source)).
			Wrap(err)
	}

	return filter{source: source, program: program}, nil
}

func (f filter) match(b scan.Binding) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, row{Name: b.Name, Value: b.Value, Line: b.Line})
	if err != nil {
		return false, ErrFilter.
			With(slog.String("expr", f.source), slog.String("name", b.Name)).
			Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}
