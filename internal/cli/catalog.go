package cli

import (
	"fmt"
	"strings"

	"github.com/perclft/qbench/pkg/bench"
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "list the supported benchmarks, levels and compilers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			tw := newTable(w)
			headerColor.Fprintln(tw, "BENCHMARK\tNAMESPACE\tQUBITS")
			for _, name := range bench.SupportedBenchmarks() {
				b, err := bench.Lookup(name)
				if err != nil {
					return err
				}
				ns, err := bench.Namespace(name)
				if err != nil {
					return err
				}
				row(tw, b.Name, ns, fmt.Sprintf("%d-%d", b.MinQubits, b.MaxQubits))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "levels: %s\n", strings.Join(bench.SupportedLevels(), ", "))
			fmt.Fprintf(w, "compilers: %s\n", strings.Join(bench.SupportedCompilers(), ", "))
			dimColor.Fprintf(w, "output directory: %s\n", a.outputDir)
			return nil
		},
	}
}

func newDevicesCmd(a *app) *cobra.Command {
	var calibration string
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "list the providers and their devices.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if calibration != "" {
				a.cfg.RigettiCalibration = calibration
			}
			reg := a.providers()

			tw := newTable(cmd.OutOrStdout())
			headerColor.Fprintln(tw, "PROVIDER\tDEVICE\tQUBITS\tEDGES\tNATIVE GATES")
			for _, name := range reg.List() {
				p, err := reg.Get(name)
				if err != nil {
					return err
				}
				for _, devName := range p.DeviceNames() {
					dev, err := p.Device(devName)
					if err != nil {
						return err
					}
					row(tw, name, dev.Name, dev.NumQubits, len(dev.CouplingMap), strings.Join(p.NativeGates(), " "))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&calibration, "rigetti-calibration", "", "Rigetti calibration JSON (default from config)")
	return cmd
}
