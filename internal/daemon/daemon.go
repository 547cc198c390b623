// Package daemon ties the pieces of barberqd into a single lifecycle:
// flock-based locking to prevent multiple instances, the bootstrap owner
// seed, and the HTTP server.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"barberq/internal/config"
	"barberq/internal/logging"
	"barberq/internal/server"
	"barberq/internal/storage"
	"barberq/internal/users"
)

// Daemon owns the process-wide resources of a running barberqd.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *storage.DB
	server *server.Server
	users  *users.Store

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, db *storage.DB, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("daemon requires config and database")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv, err := server.New(cfg, db, logger)
	if err != nil {
		return nil, err
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		db:       db,
		server:   srv,
		users:    users.NewStore(db),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock, seeds the bootstrap owner if the users
// table is empty, and serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another barberqd instance holds %s", d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("release lock", logging.Error(err))
		}
	}()

	if err := d.bootstrapOwner(ctx); err != nil {
		return err
	}

	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.db.Path()))
	return d.server.Run(ctx)
}

// bootstrapOwner seeds the initial owner account from config so a fresh
// install has a way to sign in. A populated users table makes this a no-op.
func (d *Daemon) bootstrapOwner(ctx context.Context) error {
	boot := d.cfg.Bootstrap
	if boot.OwnerEmail == "" || boot.OwnerPassword == "" {
		count, err := d.users.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			d.logger.Warn("no accounts exist and no bootstrap owner configured; only the api token can authenticate")
		}
		return nil
	}

	name := boot.OwnerName
	if name == "" {
		name = "Owner"
	}
	owner, err := d.users.SeedOwner(ctx, name, boot.OwnerEmail, boot.OwnerPassword)
	if err != nil {
		return fmt.Errorf("seed bootstrap owner: %w", err)
	}
	if owner != nil {
		d.logger.Info("bootstrap owner created", logging.String("email", owner.Email))
	}
	return nil
}
