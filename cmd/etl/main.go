package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/outage-feed-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/outage-feed-etl/internal/adapter/kafka"
	"github.com/couchcryptid/outage-feed-etl/internal/adapter/postgres"
	"github.com/couchcryptid/outage-feed-etl/internal/adapter/socrata"
	"github.com/couchcryptid/outage-feed-etl/internal/alert"
	"github.com/couchcryptid/outage-feed-etl/internal/config"
	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/couchcryptid/outage-feed-etl/internal/memory"
	"github.com/couchcryptid/outage-feed-etl/internal/observability"
	"github.com/couchcryptid/outage-feed-etl/internal/pipeline"
	"github.com/couchcryptid/outage-feed-etl/internal/provider"
)

// smeCounties is the cooperative's service territory. Its county feed
// omits a county entirely on quiet cycles, so it runs through the
// customer count memory store.
var smeCounties = []string{"Calvert", "Charles", "St. Mary's"}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, cfg.Database.DSN, logger)
	if err != nil {
		return fmt.Errorf("open outage store: %w", err)
	}
	defer store.Close()

	mem, err := memory.Open(cfg.Memory.Dir, logger)
	if err != nil {
		return fmt.Errorf("open customer count memory: %w", err)
	}
	defer func() {
		if err := mem.Close(); err != nil {
			logger.Error("customer count memory close error", "error", err)
		}
	}()

	inventory := domain.MarylandZips()
	client := provider.NewClient(cfg.FetchTimeout)
	adapters, err := buildAdapters(cfg, client, inventory, logger)
	if err != nil {
		return fmt.Errorf("build feed adapters: %w", err)
	}

	var cloud pipeline.CloudPublisher
	if cfg.Socrata.Enabled {
		cloud = socrata.NewClient(socrata.Config{
			Domain:   cfg.Socrata.Domain,
			AppToken: cfg.Socrata.AppToken,
			Username: cfg.Socrata.Username,
			Password: cfg.Socrata.Password,
		}, cfg.FetchTimeout, logger)
		logger.Info("cloud publishing enabled", "domain", cfg.Socrata.Domain)
	}

	var snapshots pipeline.SnapshotPublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.Kafka.Enabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		snapshots = kafkaWriter
		logger.Info("snapshot streaming enabled", "topic", cfg.Kafka.Topic)
	}

	var alerter pipeline.Alerter
	if cfg.SMTP.Enabled {
		alerter = alert.NewMailer(alert.Config{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			From: cfg.SMTP.From,
			To:   cfg.SMTP.To,
		}, logger)
	}

	p := pipeline.New(adapters, store, mem, cloud, snapshots, alerter, inventory, logger, metrics, pipeline.Options{
		TargetState:    cfg.TargetState,
		FetchWorkers:   cfg.FetchWorkers,
		StatusFilePath: cfg.StatusFilePath,
		MemoryProvider: provider.SMEAbbrev,
		MemoryCounties: smeCounties,
		Datasets: pipeline.CloudDatasets{
			County:        cfg.Socrata.CountyDataset,
			Zip:           cfg.Socrata.ZipDataset,
			FeedStatus:    cfg.Socrata.FeedStatusDataset,
			RetentionDays: cfg.Socrata.RetentionDays,
		},
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.StatusFilePath, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if cfg.RunOnce {
		if err := p.RunCycle(ctx); err != nil {
			logger.Error("cycle completed with errors", "error", err)
		}
	} else {
		go func() {
			if err := p.Run(ctx, cfg.RunInterval); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		<-ctx.Done()
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// buildAdapters constructs the full provider×style adapter set from the
// configured feed URIs. Every provider runs both styles; a missing feed
// entry is a configuration error, not a degraded feed.
func buildAdapters(cfg *config.Config, client *provider.Client, inventory domain.Inventory, logger *slog.Logger) ([]provider.Adapter, error) {
	styles := []domain.AreaType{domain.County, domain.Zip}

	if cfg.BGE.PostURI == "" {
		return nil, errors.New("bge.post_uri is required")
	}
	bgeCfg := provider.BGEConfig{
		PostURI:    cfg.BGE.PostURI,
		SOAPAction: cfg.BGE.SOAPAction,
		Username:   cfg.BGE.Username,
		Password:   cfg.BGE.Password,
	}

	var adapters []provider.Adapter
	for _, style := range styles {
		adapters = append(adapters, provider.NewBGE(client, style, bgeCfg, logger))
	}

	builders := map[string]func(style domain.AreaType, e provider.Endpoints) provider.Adapter{
		provider.CTKAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewCTK(client, style, e, logger)
		},
		provider.DELAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewDEL(client, style, e, logger)
		},
		provider.EUCAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewEUC(client, style, e, logger)
		},
		provider.FESAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewFES(client, style, e, logger)
		},
		provider.PEPAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewPEP(client, style, e, inventory, logger)
		},
		provider.SMEAbbrev: func(style domain.AreaType, e provider.Endpoints) provider.Adapter {
			return provider.NewSME(client, style, e, logger)
		},
	}

	for _, abbrev := range []string{
		provider.CTKAbbrev, provider.DELAbbrev, provider.EUCAbbrev,
		provider.FESAbbrev, provider.PEPAbbrev, provider.SMEAbbrev,
	} {
		for _, style := range styles {
			key := abbrev + "_" + string(style)
			feed, ok := cfg.Feeds[key]
			if !ok {
				return nil, fmt.Errorf("missing feed configuration %q", key)
			}
			adapters = append(adapters, builders[abbrev](style, provider.Endpoints{
				Metadata: feed.Metadata,
				Date:     feed.Date,
				Data:     feed.Data,
				Config:   feed.Config,
			}))
		}
	}
	return adapters, nil
}
