// Package bootstrap wires the simulator's services into a runnable
// instance: the shared store, the mailbox orchestrator, and a
// background scheduler that periodically garbage-collects attachments
// and verifies label counts (mirroring the teacher's Worker/scheduler
// composition root).
package bootstrap

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mailsim/config"
	"mailsim/core/service/mailbox"
	"mailsim/core/service/store"
	"mailsim/pkg/logger"
)

const (
	gcInterval     = 5 * time.Minute
	verifyInterval = 10 * time.Minute
)

// Simulator is the top-level running instance: store, mailbox, and the
// background maintenance scheduler.
type Simulator struct {
	Store   *store.Store
	Mailbox *mailbox.Mailbox
	Config  *config.Config

	zlog   zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Simulator: a fresh store (optionally seeded with the
// default "me" user), a mailbox over it, and a structured zerolog
// sink for background maintenance logging.
func New(cfg *config.Config) (*Simulator, func(), error) {
	logger.Init(logger.Config{Level: logger.ParseLevel(cfg.LogLevel), Service: "mailsim"})

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "mailsim").Logger()

	s := store.New()
	if cfg.SeedOnStart {
		s.ResetDB()
	}

	if cfg.SnapshotPath != "" {
		if data, err := os.ReadFile(cfg.SnapshotPath); err == nil {
			if err := s.Load(data); err != nil {
				zlog.Warn().Err(err).Msg("failed to load snapshot, starting from seeded state")
			} else {
				zlog.Info().Str("path", cfg.SnapshotPath).Msg("loaded snapshot")
			}
		}
	}

	mb := mailbox.New(s, logger.Default())

	ctx, cancel := context.WithCancel(context.Background())
	sim := &Simulator{
		Store:   s,
		Mailbox: mb,
		Config:  cfg,
		zlog:    zlog,
		ctx:     ctx,
		cancel:  cancel,
	}

	cleanup := func() {
		sim.Stop()
	}
	return sim, cleanup, nil
}

// Start launches the background GC/verify scheduler. It returns
// immediately; the scheduler runs on its own goroutine until Stop.
func (sim *Simulator) Start() {
	sim.wg.Add(1)
	go func() {
		defer sim.wg.Done()
		sim.runScheduler()
	}()
	sim.zlog.Info().Msg("started attachment GC / label verify scheduler")
}

func (sim *Simulator) runScheduler() {
	gcTicker := time.NewTicker(gcInterval)
	verifyTicker := time.NewTicker(verifyInterval)
	defer gcTicker.Stop()
	defer verifyTicker.Stop()

	for {
		select {
		case <-sim.ctx.Done():
			return
		case <-gcTicker.C:
			removed := sim.Store.GCAttachments()
			if removed > 0 {
				sim.zlog.Info().Int("removed", removed).Msg("attachment GC pass")
			}
		case <-verifyTicker.C:
			report := sim.Mailbox.Verify(true)
			if report.HasDifferences {
				sim.zlog.Warn().Int("usersWithDiffs", len(report.Users)).Msg("label verifier found and repaired differences")
			}
		}
	}
}

// Stop halts the scheduler and, when a snapshot path is configured,
// persists the store's current state.
func (sim *Simulator) Stop() {
	sim.cancel()
	sim.wg.Wait()

	if sim.Config.SnapshotPath == "" {
		return
	}
	data, err := sim.Store.Snapshot()
	if err != nil {
		sim.zlog.Error().Err(err).Msg("failed to build snapshot")
		return
	}
	if err := os.WriteFile(sim.Config.SnapshotPath, data, 0o644); err != nil {
		sim.zlog.Error().Err(err).Msg("failed to write snapshot")
		return
	}
	sim.zlog.Info().Str("path", sim.Config.SnapshotPath).Msg("wrote snapshot")
}
