package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/perclft/qbench/pkg/qasmfile"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// evaluateDir computes reports for every .qasm file under dir with at most
// jobs files in flight. Files that fail to parse or evaluate are logged and
// left out.
func evaluateDir(dir string, jobs int) ([]featureReport, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), qasmfile.Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", dir)
	}
	sort.Strings(paths)

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	reports := make([]*featureReport, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			c, err := loadCircuit(path)
			if err == nil {
				var r featureReport
				if r, err = report(path, c); err == nil {
					reports[i] = &r
					return nil
				}
			}
			log.WithError(err).WithField("file", path).Warn("skipping file")
			return nil
		})
	}
	_ = g.Wait()

	var out []featureReport
	for _, r := range reports {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "evaluate [flags] [dir]",
		Short: "evaluate every benchmark file in a directory.",
		Long: `Compute size, depth and SupermarqFeatures for every .qasm file below a
directory, the output directory by default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.outputDir
			if len(args) == 1 {
				dir = args[0]
			}
			if jobs == 0 {
				jobs = a.cfg.Jobs
			}
			reports, err := evaluateDir(dir, jobs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			tw := newTable(w)
			headerColor.Fprintln(tw, "FILE\tQUBITS\tDEPTH\tGATES\tNONLOCAL\tPC\tCD\tER\tPAR\tLIVE")
			for _, r := range reports {
				rel, err := filepath.Rel(dir, r.File)
				if err != nil {
					rel = r.File
				}
				row(tw, append([]any{rel, r.Qubits, r.Depth, r.Gates, r.Nonlocal}, featureCols(r.Features)...)...)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			dimColor.Fprintf(w, "%d files evaluated\n", len(reports))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent files (default from config, else GOMAXPROCS)")
	return cmd
}
