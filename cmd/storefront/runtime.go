package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/food_storefront/internal/apiclient"
	"github.com/Skotchmaster/food_storefront/internal/config"
	"github.com/Skotchmaster/food_storefront/internal/logging"
	"github.com/Skotchmaster/food_storefront/internal/mykafka"
	"github.com/Skotchmaster/food_storefront/internal/pages"
	"github.com/Skotchmaster/food_storefront/internal/search"
	"github.com/Skotchmaster/food_storefront/internal/session"
)

// runtime is everything a command needs, built from configuration.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	store   session.Store
	session session.Repository
	app     *pages.App
	out     io.Writer
	closers []func() error
}

type bootOptions struct {
	pageSize   int
	sampleCart bool
	logOut     io.Writer
}

func boot(ctx context.Context, cfg config.Config, out io.Writer, opts bootOptions) (*runtime, error) {
	logger := logging.New(cfg.LogLevel)
	if opts.logOut != nil {
		logger = logging.NewWithWriter(opts.logOut, cfg.LogLevel)
	}
	logger = logger.With("service", "storefront")
	slog.SetDefault(logger)
	ctx = logging.IntoContext(ctx, logger)

	if cfg.EnvFileErr != nil {
		logger.Debug("env_file_not_loaded", "reason", "using process environment", "error", cfg.EnvFileErr)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger, out: out}

	store, err := session.Open(ctx, session.Options{
		Driver:    cfg.SessionDriver,
		Path:      cfg.SessionPath,
		DSN:       cfg.SessionDSN,
		RedisAddr: cfg.RedisAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	rt.store = store
	rt.session = session.NewRepository(store)
	rt.closers = append(rt.closers, store.Close)

	client := apiclient.NewClient(cfg.APIURL, cfg.HTTPTimeout)

	var orders pages.OrderSubmitter = pages.HTTPOrderSubmitter{API: client}
	if cfg.OrderSink == "kafka" {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, producer.Close)
		orders = pages.KafkaOrderSubmitter{Producer: producer, Topic: cfg.OrderTopic}
	}

	var searcher search.Searcher
	if cfg.ESURL != "" {
		es, err := search.NewElastic(ctx, search.ElasticConfig{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			searcher = es
		}
	}

	pageSize := cfg.PageSize
	if opts.pageSize > 0 {
		pageSize = opts.pageSize
	}

	rt.app = pages.NewApp(pages.Deps{
		Auth:       client,
		Products:   client,
		Orders:     orders,
		Session:    rt.session,
		Searcher:   searcher,
		PageSize:   pageSize,
		SampleCart: opts.sampleCart,
	})
	return rt, nil
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warn("close_error", "error", err)
		}
	}
	r.closers = nil
}

func (r *runtime) ctx(cmd *cobra.Command) context.Context {
	return logging.IntoContext(cmd.Context(), r.logger)
}

// withRuntime boots from the environment and closes everything afterwards.
func withRuntime(cmd *cobra.Command, opts bootOptions, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := boot(cmd.Context(), config.Load(), cmd.OutOrStdout(), opts)
	if err != nil {
		if errors.Is(err, config.ErrMissing) {
			fmt.Fprintln(os.Stderr, "hint: set it in the environment or in .env")
		}
		return err
	}
	defer rt.Close()
	return fn(rt.ctx(cmd), rt)
}
