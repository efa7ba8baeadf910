package state

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/vq/internal/config"
	"github.com/Paintersrp/vq/internal/engine"
	"github.com/Paintersrp/vq/internal/exec"
	"github.com/Paintersrp/vq/internal/vault"
)

// State wires the host pieces together: config, the loaded vault, and the
// query engine built over it. Engine rebuilds and query execution are
// serialized here so the engine itself stays lock-free.
type State struct {
	Config  *config.Config
	Home    string
	Vault   string
	Watcher *VaultWatcher

	mu         sync.Mutex
	collection *vault.Collection
	memo       *vault.MetaCache
	engine     *engine.Engine
	log        zerolog.Logger
}

func NewState(configPath, vaultOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = config.DefaultPath(home)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if vaultOverride != "" {
		cfg.VaultDir = vaultOverride
	}
	if cfg.VaultDir == "" {
		return nil, fmt.Errorf("no vault directory configured; set vaultdir in %s or pass --vault", configPath)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger()

	s := &State{
		Config: cfg,
		Home:   home,
		Vault:  cfg.VaultDir,
		log:    log,
	}
	s.engine = engine.New(engine.Options{
		CacheTTL:      time.Duration(cfg.Cache.TTLMillis) * time.Millisecond,
		CacheCapacity: cfg.Cache.Capacity,
	}, log)

	if err := s.Reload(); err != nil {
		return nil, err
	}

	return s, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return home, nil
}

// Reload re-reads the vault from disk and rebuilds the engine's indexes.
func (s *State) Reload() error {
	loader := vault.NewLoader(s.Vault, vault.Config{
		IgnoredFolders: s.Config.IgnoredFolders,
	}, vault.FrontmatterExtractor{}, s.log)

	collection, memo, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load vault %s: %w", s.Vault, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection = collection
	s.memo = memo
	s.engine.Rebuild(collection.Documents(), collection, memo)

	return nil
}

// Query executes one query against the current engine snapshot.
func (s *State) Query(text string) exec.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Execute(text)
}

func (s *State) Engine() *engine.Engine {
	return s.engine
}

func (s *State) Documents() []vault.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection == nil {
		return nil
	}
	return s.collection.Documents()
}

// Watch starts a vault watcher that reloads the engine whenever a note
// changes, then invokes onReload. It blocks until the watcher is closed.
func (s *State) Watch(onReload func()) error {
	watcher, err := NewVaultWatcher(s.Vault)
	if err != nil {
		return err
	}
	s.Watcher = watcher

	watcher.OnChange(func(rel string) {
		s.log.Debug().Str("note", rel).Msg("vault changed, reloading")
		if err := s.Reload(); err != nil {
			s.log.Error().Err(err).Msg("reload failed")
			return
		}
		if onReload != nil {
			onReload()
		}
	})

	return watcher.Run()
}

func (s *State) Close() error {
	if s == nil || s.Watcher == nil {
		return nil
	}
	return s.Watcher.Close()
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("VQ_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
