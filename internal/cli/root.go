// Package cli implements the qctl commands.
package cli

import (
	"context"
	"os"

	"github.com/perclft/qbench/backend/backends"
	"github.com/perclft/qbench/internal/config"
	"github.com/perclft/qbench/pkg/qasmfile"
	"github.com/perclft/qbench/pkg/version"
	"github.com/perclft/qbench/services/registry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by all commands, filled once before any command
// runs.
type app struct {
	configPath string
	verbose    bool

	cfg       config.Config
	outputDir string
}

func (a *app) writer() *qasmfile.Writer {
	w := qasmfile.NewWriter()
	w.CompilerVersions = a.cfg.CompilerVersions
	return w
}

func (a *app) providers() *backends.ProviderRegistry {
	return backends.DefaultRegistry(a.cfg.RigettiCalibration)
}

// openRegistry opens the configured registry, or returns nil when none is
// configured.
func (a *app) openRegistry(ctx context.Context) (*registry.Store, error) {
	if a.cfg.Registry.DSN == "" {
		return nil, nil
	}
	return registry.Open(ctx, a.cfg.Registry.Driver, a.cfg.Registry.DSN)
}

func (a *app) requireRegistry(ctx context.Context) (*registry.Store, error) {
	store, err := a.openRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("no registry configured, set registry.dsn in the config file")
	}
	return store, nil
}

// NewRootCmd builds the qctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "qctl",
		Short:         "Generate and analyse quantum circuit benchmarks.",
		Long:          "Generate benchmark circuits as OpenQASM files, compute their SupermarqFeatures and serve them over gRPC.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				log.SetLevel(log.DebugLevel)
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.outputDir = cfg.DefaultOutputDir()
			log.WithFields(log.Fields{
				"viewer": cfg.ViewerAvailable(),
				"output": a.outputDir,
			}).Debug("output directory resolved")
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "increase logging verbosity")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")

	root.AddCommand(
		newGenerateCmd(a),
		newFeaturesCmd(a),
		newExportCmd(a),
		newEvaluateCmd(a),
		newCatalogCmd(a),
		newDevicesCmd(a),
		newRecordsCmd(a),
		newServeCmd(a),
		newRemoteCmd(a),
	)
	return root
}

func versionString() string {
	v, err := version.Lookup()
	if err != nil {
		return "(unknown version)"
	}
	return v
}

// Execute runs qctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
