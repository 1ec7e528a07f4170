// Package redisstore keeps the ledger collections in Redis.
//
// Each collection is one string key holding the JSON document, next to a
// version counter. Commit watches the counter and writes inside MULTI/EXEC,
// so a concurrent writer aborts the transaction instead of being
// overwritten.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Praneeth-dev2/Invoice-and-Customer-Ledger-App/ledger"
)

type Options = goredis.UniversalOptions

const versionKey = "customer_ledger_version"

type Store struct {
	client goredis.UniversalClient
	prefix string
}

// New wraps an existing client. Every key is prefixed with keysPrefix.
func New(client goredis.UniversalClient, keysPrefix string) *Store {
	return &Store{client: client, prefix: keysPrefix}
}

// Dial connects and pings before returning.
func Dial(ctx context.Context, opts *Options, keysPrefix string) (*Store, error) {
	c := goredis.NewUniversalClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return New(c, keysPrefix), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Load reads all three keys with a single MGET.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	vals, err := s.client.MGet(ctx,
		s.key(versionKey), s.key(ledger.CustomersKey), s.key(ledger.TransactionsKey)).Result()
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	var snap ledger.Snapshot
	if snap.Version, err = parseVersion(vals[0]); err != nil {
		return ledger.Snapshot{}, err
	}
	customers, hasCustomers := vals[1].(string)
	txs, hasTxs := vals[2].(string)
	snap.Initialized = hasCustomers || hasTxs

	if snap.Customers, err = ledger.DecodeCustomers([]byte(customers)); err != nil {
		return ledger.Snapshot{}, err
	}
	if snap.Transactions, err = ledger.DecodeTransactions([]byte(txs)); err != nil {
		return ledger.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) SaveCustomers(ctx context.Context, customers []ledger.Customer) error {
	body, err := ledger.EncodeCustomers(customers)
	if err != nil {
		return fmt.Errorf("failed to encode customers: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.key(ledger.CustomersKey), body, 0)
		pipe.Incr(ctx, s.key(versionKey))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save customers: %w", err)
	}
	return nil
}

func (s *Store) SaveTransactions(ctx context.Context, txs []ledger.Transaction) error {
	body, err := ledger.EncodeTransactions(txs)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.key(ledger.TransactionsKey), body, 0)
		pipe.Incr(ctx, s.key(versionKey))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

// Commit writes both documents if the version key still holds snap.Version.
func (s *Store) Commit(ctx context.Context, snap ledger.Snapshot) error {
	customers, err := ledger.EncodeCustomers(snap.Customers)
	if err != nil {
		return fmt.Errorf("failed to encode customers: %w", err)
	}
	txs, err := ledger.EncodeTransactions(snap.Transactions)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}

	vk := s.key(versionKey)
	err = s.client.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, vk).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		current, err := parseVersion(raw)
		if err != nil {
			return err
		}
		if current != snap.Version {
			return ledger.ErrConcurrentModification
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, s.key(ledger.CustomersKey), customers, 0)
			pipe.Set(ctx, s.key(ledger.TransactionsKey), txs, 0)
			pipe.Incr(ctx, vk)
			return nil
		})
		return err
	}, vk)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, goredis.TxFailedErr), errors.Is(err, ledger.ErrConcurrentModification):
		return ledger.ErrConcurrentModification
	default:
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
}

// Clear deletes both documents. The version keeps counting.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, s.key(ledger.CustomersKey), s.key(ledger.TransactionsKey))
		pipe.Incr(ctx, s.key(versionKey))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

// parseVersion accepts the raw MGET/GET value. Missing means zero.
func parseVersion(v any) (int64, error) {
	var raw string
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		raw = t
	default:
		return 0, fmt.Errorf("unexpected version value %T", v)
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt version %q: %w", raw, err)
	}
	return n, nil
}
