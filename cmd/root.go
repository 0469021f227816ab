package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/listnode/config"
	"github.com/s0up4200/listnode/filter"
	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/node"
	"github.com/s0up4200/listnode/refcache"
	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/session"
	"github.com/s0up4200/listnode/webhook"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   zerolog.Logger
	api      *marketing.API
	cache    *refcache.Cache
	hooks    *webhook.Server
	registry *node.Registry

	// closers run after every command
	closers []func() error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listnode",
	Short: "Workflow nodes for a marketing-automation API",
	Long: `listnode runs the workflow nodes that wrap a marketing-automation REST API
(contacts, tags, custom fields and opt-in lists) from the command line.

Every node call logs in, performs one request and logs out again. Reference
data (tags, fields, lists) is cached for the configured ttl.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// SetVersion sets the version reported by --version
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// execute runs cmd and releases opened resources on every path, since
// PersistentPostRunE is skipped when RunE fails
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if cerr := closeResources(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(cacheCmd)
}

// initializeApp loads the configuration and wires the services
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err := remote.NewClient(cfg.API.URL, logger,
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithUserAgent(cfg.API.UserAgent),
		remote.WithAPIKey(cfg.API.APIKey),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	store, err := openStore(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open %s cache: %w", cfg.Cache.Backend, err)
	}
	cache = refcache.New(store, refcache.WithTTL(cfg.Cache.TTL), refcache.WithLogger(logger))

	api = marketing.New(
		session.NewManager(client, logger),
		session.Credentials{Login: cfg.API.Login, Password: cfg.API.Password},
		marketing.WithCache(cache),
		marketing.WithLogger(logger),
	)

	filters := filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}

	hooks = webhook.NewServer(logger, webhook.WithBasePath(cfg.Webhook.BasePath))

	registry, err = node.DefaultRegistry(node.Deps{
		API:         api,
		Filters:     filters,
		Webhooks:    hooks,
		Concurrency: cfg.Batch.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to register nodes: %w", err)
	}

	logger.Debug().
		Str("api", client.BaseURL()).
		Str("cache", cfg.Cache.Backend).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Initialized")
	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	return closeResources()
}

// closeResources runs and clears the registered closers
func closeResources() error {
	var firstErr error
	for _, closeFn := range closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}

// openStore creates the configured reference data backend
func openStore(c config.CacheConfig) (refcache.Store, error) {
	switch c.Backend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		closers = append(closers, rdb.Close)
		return refcache.NewRedisStore(rdb, c.Redis.Prefix), nil

	case config.BackendSQLite:
		db, err := refcache.OpenSQLite(c.SQLite.Path)
		if err != nil {
			return nil, err
		}
		closers = append(closers, db.Close)
		return refcache.NewSQLiteStore(db)

	default:
		return refcache.NewMemoryStore(), nil
	}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
