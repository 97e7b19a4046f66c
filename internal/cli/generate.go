package cli

import (
	"os"
	"path/filepath"

	"github.com/perclft/qbench/pkg/bench"
	"github.com/perclft/qbench/services/registry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		qubits   string
		level    string
		compiler string
		out      string
		jobs     int
		all      bool
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "generate [flags] benchmark...",
		Short: "write benchmark circuits as OpenQASM files.",
		Long: `Generate the named benchmarks for every requested qubit count and write
one file per circuit at the alg or indep level. Counts a benchmark does not
support are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if all {
				names = bench.SupportedBenchmarks()
			}
			if len(names) == 0 {
				return errors.New("name at least one benchmark or use --all")
			}
			counts, err := parseCounts(qubits)
			if err != nil {
				return err
			}
			list, err := bench.Jobs(names, counts, level, compiler)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return errors.Errorf("no benchmark accepts qubit counts %s", qubits)
			}

			dir := out
			if dir == "" {
				dir = a.outputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}
			if jobs == 0 {
				jobs = a.cfg.Jobs
			}

			ctx := cmd.Context()
			var store *registry.Store
			if save {
				if store, err = a.requireRegistry(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			results, err := bench.Sweep(ctx, list, bench.SweepOptions{Dir: dir, Jobs: jobs, Writer: a.writer()})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			tw := newTable(w)
			headerColor.Fprintln(tw, "FILE\tQUBITS\tPC\tCD\tER\tPAR\tLIVE")
			ok, failed := 0, 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					row(tw, failColor.Sprint(r.Job.Benchmark), r.Job.NumQubits, r.Err)
					continue
				}
				ok++
				row(tw, append([]any{filepath.Base(r.Path), r.Job.NumQubits}, featureCols(r.Features)...)...)
				if store != nil {
					if _, err := store.Save(ctx, registry.Record{
						Benchmark: r.Job.Benchmark,
						Level:     r.Job.Level,
						Compiler:  r.Job.Compiler,
						NumQubits: r.Job.NumQubits,
						Path:      r.Path,
						Features:  r.Features,
					}); err != nil {
						log.WithError(err).WithField("file", r.Path).Warn("not recorded in registry")
					}
				}
			}
			tw.Flush()
			summary(w, "files", ok, failed)
			if ok == 0 {
				return errors.New("no benchmark generated")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&qubits, "qubits", "q", "2-10", "qubit counts, e.g. 2-10, 4,8,16 or 2-20:2")
	cmd.Flags().StringVarP(&level, "level", "l", bench.LevelIndep, "abstraction level: alg or indep")
	cmd.Flags().StringVar(&compiler, "compiler", "qiskit", "compiler named in indep filenames")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent jobs (default from config, else GOMAXPROCS)")
	cmd.Flags().BoolVar(&all, "all", false, "generate every benchmark in the catalog")
	cmd.Flags().BoolVar(&save, "save", false, "record generated files in the registry")
	return cmd
}
