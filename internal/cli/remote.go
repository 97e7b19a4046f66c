package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	benchsvc "github.com/perclft/qbench/services/bench"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newRemoteCmd(a *app) *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "call a running bench service.",
	}
	cmd.PersistentFlags().StringVar(&server, "server", "", "service address (default from config)")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	// call dials the service and runs fn with a bounded context.
	call := func(cmd *cobra.Command, fn func(context.Context, *benchsvc.Client) error) error {
		addr := server
		if addr == "" {
			addr = a.cfg.Server.Listen
		}
		conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return errors.Wrap(err, "connection failed")
		}
		defer conn.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return fn(ctx, benchsvc.NewClient(conn))
	}

	var req benchsvc.GenerateRequest
	var out string
	generate := &cobra.Command{
		Use:   "generate [flags] benchmark",
		Short: "generate a benchmark on the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Benchmark = args[0]
			return call(cmd, func(ctx context.Context, c *benchsvc.Client) error {
				resp, err := c.Generate(ctx, req)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out == "" {
					fmt.Fprint(w, resp.Content)
					return nil
				}
				path := filepath.Join(out, resp.Filename)
				if err := os.WriteFile(path, []byte(resp.Content), 0o644); err != nil {
					return errors.Wrapf(err, "write %s", path)
				}
				okColor.Fprint(w, "wrote ")
				fmt.Fprintf(w, "%s (%s)\n", path, resp.Features)
				if resp.ID != "" {
					dimColor.Fprintf(w, "registry id %s\n", resp.ID)
				}
				return nil
			})
		},
	}
	generate.Flags().IntVarP(&req.NumQubits, "qubits", "q", 0, "qubit count")
	generate.Flags().StringVarP(&req.Level, "level", "l", "", "alg or indep")
	generate.Flags().StringVar(&req.Compiler, "compiler", "", "compiler named in indep filenames")
	generate.Flags().BoolVar(&req.Save, "save", false, "record the result in the server's registry")
	generate.Flags().StringVarP(&out, "out", "o", "", "write into this directory instead of stdout")

	features := &cobra.Command{
		Use:   "features file.qasm",
		Short: "compute features on the server.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "reading circuit")
			}
			return call(cmd, func(ctx context.Context, c *benchsvc.Client) error {
				resp, err := c.Features(ctx, string(data))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d qubits cached=%t\n%s\n", resp.Key[:16], resp.NumQubits, resp.Cached, resp.Features)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "catalog",
		Short: "list the server's benchmarks and devices.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context, c *benchsvc.Client) error {
				cat, err := c.ListBenchmarks(ctx)
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				headerColor.Fprintln(tw, "BENCHMARK\tNAMESPACE\tQUBITS")
				for _, b := range cat.Benchmarks {
					row(tw, b.Name, b.Namespace, fmt.Sprintf("%d-%d", b.MinQubits, b.MaxQubits))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				dimColor.Fprintf(cmd.OutOrStdout(), "devices: %v\n", cat.Devices)
				return nil
			})
		},
	}

	cmd.AddCommand(generate, features, list)
	return cmd
}
