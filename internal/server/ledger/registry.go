package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/filex"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/repositories/repomanager"
)

// Registry hands out one Ledger per user, creating it on first access.
//
// In the shared layout every ledger uses the main database. In the per-user
// layout each user gets a SQLite file ledger_<id>.db under dir, opened and
// migrated on first access and kept open until Close. A first access only
// blocks callers asking for the same user.
type Registry struct {
	mu    sync.Mutex
	slots map[int64]*ledgerSlot
	files []*sql.DB

	db    *sql.DB
	repos repomanager.RepositoryManager

	dir     string
	migrate func(context.Context, *sql.DB) error

	log logging.Logger
	now func() time.Time
}

type ledgerSlot struct {
	once   sync.Once
	ledger *Ledger
	err    error
}

// NewSharedRegistry serves every user from db.
func NewSharedRegistry(db *sql.DB, repos repomanager.RepositoryManager, log logging.Logger) *Registry {
	return &Registry{
		slots: make(map[int64]*ledgerSlot),
		db:    db,
		repos: repos,
		log:   log.With("module", "ledger"),
		now:   time.Now,
	}
}

// NewPerUserRegistry serves each user from its own SQLite file under dir.
func NewPerUserRegistry(dir string, log logging.Logger) (*Registry, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	sqlite := repomanager.NewSQLiteRepositoryManager()
	return &Registry{
		slots:   make(map[int64]*ledgerSlot),
		repos:   sqlite,
		dir:     abs,
		migrate: sqlite.RunLedgerMigrations,
		log:     log.With("module", "ledger", "dir", abs),
		now:     time.Now,
	}, nil
}

// WithClock overrides the clock used for default expense dates.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// For returns the ledger of userID. A failed open is not cached, so the
// next call retries.
func (r *Registry) For(ctx context.Context, userID int64) (*Ledger, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id %d", common.ErrorValidation, userID)
	}

	r.mu.Lock()
	slot, ok := r.slots[userID]
	if !ok {
		slot = &ledgerSlot{}
		r.slots[userID] = slot
	}
	r.mu.Unlock()

	slot.once.Do(func() {
		slot.ledger, slot.err = r.open(ctx, userID)
	})
	if slot.err != nil {
		r.mu.Lock()
		if r.slots[userID] == slot {
			delete(r.slots, userID)
		}
		r.mu.Unlock()
		return nil, slot.err
	}
	return slot.ledger, nil
}

func (r *Registry) open(ctx context.Context, userID int64) (*Ledger, error) {
	db := r.db
	if r.dir != "" {
		var err error
		if db, err = r.openUserFile(ctx, userID); err != nil {
			return nil, err
		}
	}
	return &Ledger{userID: userID, db: db, repos: r.repos, now: r.now}, nil
}

func (r *Registry) openUserFile(ctx context.Context, userID int64) (*sql.DB, error) {
	path := filepath.Join(r.dir, fmt.Sprintf("ledger_%d.db", userID))
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"

	db, err := sql.Open(r.repos.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if err := r.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ledger %s: %w", path, err)
	}

	r.mu.Lock()
	r.files = append(r.files, db)
	r.mu.Unlock()

	r.log.Info(ctx, "ledger opened", "user_id", userID, "path", path)
	return db, nil
}

// Close releases per-user database handles. The shared database belongs to
// the caller and stays open.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, db := range r.files {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.files = nil
	r.slots = make(map[int64]*ledgerSlot)
	return firstErr
}
