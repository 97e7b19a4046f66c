package cli

import (
	"fmt"
	"os"

	"github.com/perclft/qbench/pkg/bench"
	"github.com/perclft/qbench/services/registry"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		spec bench.FileSpec
		out  string
		save bool
	)
	cmd := &cobra.Command{
		Use:   "export [flags] compiled.qasm",
		Short: "write a compiled circuit with its target's header.",
		Long: `Export OpenQASM compiled by an external tool at the nativegates or mapped
level. The header records the provider's native gate set and, when mapped,
the device's coupling list; OQC targets receive the vendor patch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "reading compiled circuit")
			}
			if spec.Benchmark == "" {
				return errors.New("--benchmark is required")
			}
			if _, err := bench.Lookup(spec.Benchmark); err != nil {
				return err
			}

			dir := out
			if dir == "" {
				dir = a.outputDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}
			path, err := bench.Export(a.writer(), a.providers(), string(data), spec, dir)
			if err != nil {
				return err
			}

			if save {
				ctx := cmd.Context()
				store, err := a.requireRegistry(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				c, err := loadCircuit(path)
				if err != nil {
					return err
				}
				r, err := report(path, c)
				if err != nil {
					return err
				}
				target := spec.Provider
				if spec.Level == bench.LevelMapped {
					target = spec.Device
				}
				if _, err := store.Save(ctx, registry.Record{
					Benchmark: spec.Benchmark,
					Level:     spec.Level,
					Compiler:  spec.Compiler,
					Target:    target,
					NumQubits: r.Qubits,
					Path:      path,
					Features:  r.Features,
				}); err != nil {
					return err
				}
			}
			okColor.Fprint(cmd.OutOrStdout(), "exported ")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&spec.Benchmark, "benchmark", "b", "", "benchmark the circuit was generated from")
	cmd.Flags().IntVarP(&spec.NumQubits, "qubits", "q", 0, "qubit count in the filename (default: the circuit's)")
	cmd.Flags().StringVarP(&spec.Level, "level", "l", bench.LevelMapped, "nativegates or mapped")
	cmd.Flags().StringVar(&spec.Compiler, "compiler", "qiskit", "compiler that produced the circuit")
	cmd.Flags().StringVar(&spec.Provider, "provider", "", "provider for nativegates")
	cmd.Flags().StringVar(&spec.Device, "device", "", "device for mapped")
	cmd.Flags().IntVar(&spec.OptLevel, "opt", 1, "compiler optimization level 0-3")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "record the exported file in the registry")
	return cmd
}
