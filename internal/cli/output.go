package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	headerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(tw io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func featureCols(f supermarq.Features) []any {
	var cols []any
	for _, nv := range f.Named() {
		cols = append(cols, strconv.FormatFloat(nv.Value, 'f', 4, 64))
	}
	return cols
}

// summary prints "n ok, m failed" in colour.
func summary(w io.Writer, what string, ok, failed int) {
	okColor.Fprintf(w, "%d %s written", ok, what)
	if failed > 0 {
		fmt.Fprint(w, ", ")
		failColor.Fprintf(w, "%d failed", failed)
	}
	fmt.Fprintln(w)
}

// parseCounts reads qubit counts given as a list of numbers and ranges,
// "2-10", "4,8,16" or "2-20:2" with a step.
func parseCounts(spec string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		step := 1
		if r, s, ok := strings.Cut(part, ":"); ok {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return nil, errors.Errorf("invalid step in %q", part)
			}
			part, step = r, n
		}
		lo, hi, isRange := strings.Cut(part, "-")
		from, err := strconv.Atoi(lo)
		if err != nil {
			return nil, errors.Errorf("invalid qubit count %q", part)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(hi); err != nil || to < from {
				return nil, errors.Errorf("invalid qubit range %q", part)
			}
		}
		for n := from; n <= to; n += step {
			counts = append(counts, n)
		}
	}
	if len(counts) == 0 {
		return nil, errors.New("no qubit counts given")
	}
	return counts, nil
}
