// Package cli implements the vecseed command line.
//
// Commands are registered on a package-level root command. Services are
// built lazily by a ServiceFactory after flags are parsed, so global flags
// such as --config-dir can shape them.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vecseed/internal/core/ports/driving"
	"github.com/custodia-labs/vecseed/internal/logger"
)

// annotationNoServices marks commands that run without application services.
const annotationNoServices = "vecseed/no-services"

// Services holds the application services the commands drive.
type Services struct {
	Ingestion driving.IngestionService
	Settings  driving.SettingsService
}

// Options carries command line choices into service construction.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// MaxDepth overrides the crawl depth when positive.
	MaxDepth int

	// MaxPages overrides the crawl page limit when positive.
	MaxPages int
}

// ServiceFactory builds the services for one invocation.
// The returned func releases them.
type ServiceFactory func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	version = "dev"

	serviceFactory   ServiceFactory
	release          func()
	ingestionService driving.IngestionService
	settingsService  driving.SettingsService

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "vecseed",
	Short: "Seed vector indexes from snapshots and web crawls",
	Long: `vecseed loads documents into a vector index.

Documents come from a local JSON snapshot or a live web crawl. Each one is
normalised onto a fixed metadata schema, embedded, and written to a named
collection on a Chroma-style local store, Postgres with pgvector, or Milvus.
Existing collections can then be queried read-only.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	PersistentPostRun: func(*cobra.Command, []string) {
		releaseServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.vecseed, \":memory:\" keeps nothing on disk)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory sets the factory used to build services on demand.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer releaseServices()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationNoServices] != "" {
		return nil
	}
	if ingestionService != nil || serviceFactory == nil {
		return nil
	}

	opts := Options{ConfigDir: configDir}
	if f := cmd.Flags().Lookup("max-depth"); f != nil {
		opts.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	}
	if f := cmd.Flags().Lookup("max-pages"); f != nil {
		opts.MaxPages, _ = cmd.Flags().GetInt("max-pages")
	}

	svc, cleanup, err := serviceFactory(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("service factory returned no services")
	}

	ingestionService = svc.Ingestion
	settingsService = svc.Settings
	release = cleanup
	return nil
}

func releaseServices() {
	if release == nil {
		return
	}
	release()
	release = nil
	ingestionService = nil
	settingsService = nil
}
