package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	benchsvc "github.com/perclft/qbench/services/bench"
	"github.com/perclft/qbench/services/cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// openCache picks Redis when an address is configured and the in-process
// LRU otherwise.
func (a *app) openCache(ctx context.Context) (cache.FeatureCache, func(), error) {
	cc := a.cfg.Cache
	if cc.RedisAddr != "" {
		rc, err := cache.DialRedis(ctx, cc.RedisAddr, cc.RedisDB, cc.TTL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	}
	lc, err := cache.NewLRUCache(cc.Size, cc.TTL)
	if err != nil {
		return nil, nil, err
	}
	return lc, func() {}, nil
}

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the bench gRPC service.",
		Long: `Serve qbench.v1.BenchService. Computed features are cached in process or in
Redis; generated files are recorded when a registry is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if listen == "" {
				listen = a.cfg.Server.Listen
			}
			fc, closeCache, err := a.openCache(ctx)
			if err != nil {
				return err
			}
			defer closeCache()
			store, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", listen)
			}
			log.WithFields(log.Fields{
				"registry": store != nil,
				"redis":    a.cfg.Cache.RedisAddr,
			}).Info("starting bench service")
			srv := benchsvc.NewServer(fc, store, a.writer(), a.providers())
			if store != nil {
				if err := os.MkdirAll(a.outputDir, 0o755); err != nil {
					return errors.Wrap(err, "creating output directory")
				}
				srv.OutputDir = a.outputDir
			}
			return benchsvc.Serve(ctx, lis, srv)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}
