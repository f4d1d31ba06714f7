// Package cli implements the netsuite command line tool
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
	"github.com/sirosfoundation/go-netsuite/pkg/config"
	"github.com/sirosfoundation/go-netsuite/pkg/netsuite"
	"github.com/sirosfoundation/go-netsuite/pkg/transport"
)

// Version is set at build time with
// -ldflags "-X github.com/sirosfoundation/go-netsuite/internal/cli.Version=v1.2.3"
var Version = "dev"

type rootOptions struct {
	logLevel      string
	configPath    string
	configSection string
	configEnv     bool
	cacheSpec     string
	maxConcurrent int64
	timeout       time.Duration
}

// runner holds what the subcommands share: configuration, logger, cache and
// the lazily created client
type runner struct {
	opts rootOptions

	config   *config.Config
	logger   *slog.Logger
	cache    cache.Cache
	registry *prometheus.Registry
	client   *netsuite.Client

	// httpClient replaces the default HTTP client, used by tests
	httpClient *http.Client
}

// NewRootCommand builds the netsuite command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runner{})
}

func newRootCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "netsuite",
		Short:         "Make requests to NetSuite web services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return r.close(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.opts.logLevel, "log-level", "", "The log level to use (DEBUG, INFO, WARNING, ERROR), defaults to the configured level")
	flags.StringVarP(&r.opts.configPath, "config-path", "p", config.DefaultPath(), "The config file to get settings from (.ini, .yaml or .yml)")
	flags.StringVarP(&r.opts.configSection, "config-section", "c", config.DefaultINISection, "The INI config section to get settings from")
	flags.BoolVar(&r.opts.configEnv, "config-environment", false, "Use NS_* environment variables for configuration")
	flags.StringVar(&r.opts.cacheSpec, "cache", "", "Cache metadata and WSDL responses: memory, redis://... or mongodb://...")
	flags.Int64Var(&r.opts.maxConcurrent, "max-concurrent", transport.DefaultMaxConcurrent, "Maximum number of concurrent requests")
	flags.DurationVar(&r.opts.timeout, "timeout", transport.DefaultTimeout, "Timeout of each request")

	cmd.AddCommand(
		newVersionCommand(),
		newRestAPICommand(r),
		newRestletCommand(r),
		newSOAPCommand(r),
	)
	return cmd
}

func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	r.config = cfg

	levelName := r.opts.logLevel
	if levelName == "" {
		levelName = cfg.LogLevel
	}
	level, err := parseLevel(levelName)
	if err != nil {
		return err
	}
	r.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	r.cache, err = openCache(cmd.Context(), r.opts.cacheSpec)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	r.registry = prometheus.NewRegistry()
	return nil
}

func (r *runner) close(cmd *cobra.Command) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close(cmd.Context())
}

func (r *runner) loadConfig() (*config.Config, error) {
	if r.opts.configEnv {
		return config.FromEnv()
	}

	path := r.opts.configPath
	var (
		cfg *config.Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = config.LoadYAML(path)
	default:
		cfg, err = config.LoadINI(path, r.opts.configSection)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s not found", path)
	}
	return cfg, err
}

// netsuiteClient returns the client, creating it on first use
func (r *runner) netsuiteClient() (*netsuite.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	opts := []netsuite.Option{
		netsuite.WithLogger(r.logger),
		netsuite.WithMaxConcurrent(r.opts.maxConcurrent),
		netsuite.WithTimeout(r.opts.timeout),
		netsuite.WithMetrics(r.registry),
	}
	if r.cache != nil {
		opts = append(opts, netsuite.WithCache(r.cache, cache.DefaultTTL))
	}
	if r.httpClient != nil {
		opts = append(opts, netsuite.WithHTTPClient(r.httpClient))
	}

	client, err := netsuite.New(r.config, opts...)
	if err != nil {
		return nil, err
	}
	r.client = client
	return client, nil
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(name) {
	case config.LogLevelDebug:
		return slog.LevelDebug, nil
	case config.LogLevelInfo, "":
		return slog.LevelInfo, nil
	case config.LogLevelWarning, "WARN":
		return slog.LevelWarn, nil
	case config.LogLevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", name)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no config is needed to print the version
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
