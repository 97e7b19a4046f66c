package cli

import (
	"fmt"

	"github.com/perclft/qbench/services/registry"
	"github.com/spf13/cobra"
)

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "inspect the benchmark registry.",
	}

	var filter registry.Filter
	list := &cobra.Command{
		Use:   "list",
		Short: "list recorded benchmarks, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.requireRegistry(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			page, err := store.List(ctx, filter)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			tw := newTable(w)
			headerColor.Fprintln(tw, "ID\tBENCHMARK\tLEVEL\tTARGET\tQUBITS\tPC\tCD\tER\tPAR\tLIVE")
			for _, r := range page.Records {
				row(tw, append([]any{r.ID, r.Benchmark, r.Level, r.Target, r.NumQubits}, featureCols(r.Features)...)...)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			dimColor.Fprintf(w, "page %d, %d of %d records\n", page.Page, len(page.Records), page.TotalCount)
			return nil
		},
	}
	list.Flags().StringVarP(&filter.Benchmark, "benchmark", "b", "", "only this benchmark")
	list.Flags().StringVarP(&filter.Level, "level", "l", "", "only this level")
	list.Flags().IntVar(&filter.MinQubits, "min-qubits", 0, "smallest qubit count")
	list.Flags().IntVar(&filter.MaxQubits, "max-qubits", 0, "largest qubit count")
	list.Flags().IntVar(&filter.Page, "page", 1, "page number")
	list.Flags().IntVar(&filter.PageSize, "page-size", 20, "records per page (at most 100)")

	get := &cobra.Command{
		Use:   "get id",
		Short: "print a recorded benchmark file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.requireRegistry(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if rec.QASM != "" {
				fmt.Fprint(w, rec.QASM)
				return nil
			}
			fmt.Fprintf(w, "%s %s %d qubits\n%s\n%s\n", rec.Benchmark, rec.Level, rec.NumQubits, rec.Path, rec.Features)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete id...",
		Short: "remove recorded benchmarks.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.requireRegistry(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(ctx, id); err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}
