package app

import (
	"context"
	"fmt"
	"time"

	"github.com/datalode-hq/datalode-go/internal/config"
	"github.com/datalode-hq/datalode-go/internal/logger"
	"github.com/datalode-hq/datalode-go/internal/relay"
	"github.com/datalode-hq/datalode-go/internal/storage"
	"github.com/datalode-hq/datalode-go/pkg/datalode"
	"github.com/datalode-hq/datalode-go/pkg/sinks"
	"github.com/datalode-hq/datalode-go/pkg/watches"
)

// Relay represents the event relay runtime. It manages the poll loop,
// coordinating between watches, the relay service, and sinks. It also
// handles storage initialization and cleanup.
type Relay struct {
	cfg          *config.Config
	watchReg     *watches.ConfigRegistry
	fanout       *sinks.Fanout
	relayService *relay.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	clientOpts := []datalode.Option{
		datalode.WithTimeout(cfg.RequestTimeout),
		datalode.WithLogger(log),
	}
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, datalode.WithBaseURL(cfg.APIBaseURL))
	}
	client, err := datalode.NewClient(cfg.APIToken, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create platform client: %w", err)
	}
	log.InfoObj("platform client ready", "client_config", map[string]any{
		"base_url":        client.BaseURL(),
		"timeout_seconds": int(cfg.RequestTimeout.Seconds()),
	})

	watchReg, err := watches.LoadRegistry(cfg.WatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load watches registry: %w", err)
	}
	watchList := watchReg.All()
	watchIDs := make([]string, 0, len(watchList))
	for _, w := range watchList {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watches registry loaded", "watches_meta", map[string]any{
		"count": len(watchIDs),
		"ids":   watchIDs,
	})

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabledSinks := sinkReg.Enabled()
	if len(enabledSinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}

	sinkRegistry := sinks.DefaultRegistry()
	sinkClients, err := sinks.BuildAll(ctx, sinkRegistry, enabledSinks, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	fanout := sinks.NewFanout(sinkClients)
	sinkSummaries := make([]map[string]string, 0, len(enabledSinks))
	for _, sinkCfg := range enabledSinks {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(sinkSummaries),
		"sinks": sinkSummaries,
	})

	storeOpts := storage.Options{
		EventTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"event_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	relayService := relay.NewService(client, fanout, log, store, cfg.Lookback)

	return &Relay{
		cfg:          cfg,
		watchReg:     watchReg,
		fanout:       fanout,
		relayService: relayService,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the poll loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.relayService == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.closeStore()
	active := r.watchReg.Enabled()
	if len(active) == 0 {
		r.log.WarnObj("no watches enabled; relay idle", "watches_file", r.cfg.WatchesFile)
		<-ctx.Done()
		return ctx.Err()
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"watches_count": len(active),
		"sinks_count":   r.fanout.Size(),
		"poll_interval": r.pollInterval.String(),
	})

	if err := r.runOnce(ctx, active); err != nil {
		r.log.ErrorObj("initial poll failed", "error", err)
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx, active); err != nil {
				r.log.ErrorObj("scheduled poll failed", "error", err)
			}
		}
	}
}

// runOnce performs a single poll pass across all watches.
func (r *Relay) runOnce(ctx context.Context, active []watches.Watch) error {
	start := time.Now()
	r.log.InfoObj("poll started", "poll_meta", map[string]any{
		"watches_count": len(active),
		"started_at":    start.UTC(),
	})
	if err := r.relayService.Run(ctx, active); err != nil {
		return err
	}
	r.log.InfoObj("poll completed", "poll_meta", map[string]any{
		"watches_count": len(active),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (r *Relay) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
