/*
service.go - Customer ledger service

PURPOSE:
  Wraps the pure ledger engine with everything that needs state: loading
  the collections, validating input against them, and committing
  changes. This is the only place that writes to a ledger.Store.

WRITE PATH:
  Every mutation is a load -> modify -> commit cycle:

    1. Load a snapshot (both collections + version)
    2. Validate and apply the change to the snapshot
    3. Commit; the store rejects it if someone else wrote meanwhile
    4. On conflict, start again from step 1 (exponential backoff)

  Validation errors are permanent and returned straight away, so no
  partial state is ever written.

READ PATH:
  Reads load a snapshot and run the engine functions over it. Nothing is
  cached, balances are always recomputed.

NO SESSION STATE:
  The selected customer and the display order are parameters of each
  call. The service holds no per-user state.

SEE ALSO:
  - customers.go: Add, delete, list, search, detail
  - transactions.go: Add and delete transactions
  - reports.go: Statement, summary, reset, clear
*/
package customerledger

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

// DefaultRetryMaxElapsed bounds how long a conflicting commit is retried.
const DefaultRetryMaxElapsed = 5 * time.Second

type Service struct {
	store ledger.Store
	ids   *ledger.IDGenerator
	log   *zap.Logger
	now   func() time.Time

	retryMaxElapsed time.Duration

	// Serializes writers in this process. Writers in other processes are
	// caught by the store's version check.
	mu sync.Mutex
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock replaces time.Now for timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.ids = ledger.NewIDGenerator(now)
	}
}

func WithRetryMaxElapsed(d time.Duration) Option {
	return func(s *Service) { s.retryMaxElapsed = d }
}

func NewService(store ledger.Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		ids:             ledger.NewIDGenerator(time.Now),
		log:             zap.NewNop(),
		now:             time.Now,
		retryMaxElapsed: DefaultRetryMaxElapsed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current ledger with orphaned transactions removed.
func (s *Service) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	kept, dropped := ledger.PruneOrphans(snap.Customers, snap.Transactions)
	if dropped > 0 {
		s.log.Warn("dropped orphaned transactions", zap.Int("count", dropped))
		snap.Transactions = kept
	}
	return snap, nil
}

// mutate runs fn against a fresh snapshot and commits the result,
// retrying the whole cycle when the commit loses a race. fn may run more
// than once, so it must only touch the snapshot and its own results.
func (s *Service) mutate(ctx context.Context, op string, fn func(snap *ledger.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := 0
	operation := func() error {
		attempt++
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := fn(&snap); err != nil {
			return backoff.Permanent(err)
		}
		err = s.store.Commit(ctx, snap)
		if ledger.IsRetryable(err) {
			s.log.Info("commit conflict, retrying", zap.String("op", op), zap.Int("attempt", attempt))
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(s.newBackoff(), ctx))
	if err != nil && !ledger.IsClientError(err) && !ledger.IsNotFound(err) && !ledger.IsConflict(err) {
		s.log.Error("ledger update failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

func (s *Service) newBackoff() backoff.BackOff {
	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = 20 * time.Millisecond
	boff.MaxElapsedTime = s.retryMaxElapsed
	return boff
}

func (s *Service) nextID(snap *ledger.Snapshot) int64 {
	return s.ids.Next(snap.MaxID())
}

func requireConfirmation(confirm bool) error {
	if !confirm {
		return ledger.ErrConfirmationRequired
	}
	return nil
}
