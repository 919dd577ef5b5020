package cli

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	backend "github.com/redis/go-redis/v9"

	"github.com/embld/interviewflow/internal/config"
	"github.com/embld/interviewflow/pkg/adapters/file"
	"github.com/embld/interviewflow/pkg/adapters/memory"
	"github.com/embld/interviewflow/pkg/adapters/redis"
	"github.com/embld/interviewflow/pkg/adapters/sqlite"
	persistence "github.com/embld/interviewflow/pkg/persistence/middleware"
	"github.com/embld/interviewflow/pkg/ports"
)

// Storage is an opened session store with its credit ledger.
type Storage struct {
	Store  ports.SessionStore
	Ledger ports.CreditLedger
	// Close releases the backing connection; nil for in-process drivers.
	Close func() error
}

// OpenStorage opens the configured driver. Redis and SQLite keep credits
// next to the sessions; the memory and file drivers use an in-process ledger.
func OpenStorage(ctx context.Context, cfg config.StoreConfig, initialGrant int) (Storage, error) {
	var s Storage
	switch cfg.Driver {
	case config.StoreMemory:
		s = Storage{Store: memory.NewStore(), Ledger: memory.NewLedger(initialGrant)}

	case config.StoreFile:
		s = Storage{Store: file.New(cfg.Path), Ledger: memory.NewLedger(initialGrant)}

	case config.StoreRedis:
		opts, err := backend.ParseURL(cfg.RedisURL)
		if err != nil {
			return Storage{}, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return Storage{}, fmt.Errorf("failed to reach redis: %w", err)
		}
		var ropts []redis.Option
		if cfg.Prefix != "" {
			ropts = append(ropts, redis.WithPrefix(cfg.Prefix))
		}
		if cfg.TTL > 0 {
			ropts = append(ropts, redis.WithTTL(cfg.TTL))
		}
		s = Storage{
			Store:  redis.NewFromClient(client, ropts...),
			Ledger: redis.NewLedger(client, initialGrant, ropts...),
			Close:  client.Close,
		}

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return Storage{}, err
		}
		s = Storage{Store: sqlite.NewStore(db), Ledger: sqlite.NewLedger(db, initialGrant), Close: db.Close}

	default:
		return Storage{}, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.EncryptionKey == "" {
		return s, nil
	}
	enc, err := encryptionConfig(cfg)
	if err != nil {
		s.close()
		return Storage{}, err
	}
	mw, err := persistence.NewEncryptionMiddleware(enc)
	if err != nil {
		s.close()
		return Storage{}, fmt.Errorf("invalid encryption key: %w", err)
	}
	s.Store = persistence.Chain(s.Store, mw)
	return s, nil
}

func (s Storage) close() {
	if s.Close != nil {
		_ = s.Close()
	}
}

func encryptionConfig(cfg config.StoreConfig) (persistence.EncryptionConfig, error) {
	active, err := DecodeKey(cfg.EncryptionKey)
	if err != nil {
		return persistence.EncryptionConfig{}, fmt.Errorf("store.encryption_key: %w", err)
	}
	out := persistence.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := DecodeKey(k)
		if err != nil {
			return persistence.EncryptionConfig{}, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		out.FallbackKeys = append(out.FallbackKeys, key)
	}
	return out, nil
}

// DecodeKey accepts a 32-byte key as 64 hex digits or standard base64.
func DecodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) == 2*persistence.KeySize {
		if key, err := hex.DecodeString(s); err == nil {
			return key, nil
		}
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(key) != persistence.KeySize {
		return nil, fmt.Errorf("want %d bytes as hex or base64", persistence.KeySize)
	}
	return key, nil
}
