package prefabs

import (
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/milk9111/collide2d/collision"
)

// DefaultConfigFile is the physics config shipped with the module.
const DefaultConfigFile = "physics.yaml"

// ConfigStore hands the current physics config to the systems. Reloads may
// come from the watcher goroutine; readers see them on their next tick.
type ConfigStore struct {
	cfg atomic.Pointer[collision.Config]
}

func NewConfigStore(cfg collision.Config) *ConfigStore {
	s := &ConfigStore{}
	s.Store(cfg)
	return s
}

func (s *ConfigStore) Config() collision.Config {
	if cfg := s.cfg.Load(); cfg != nil {
		return *cfg
	}
	return collision.DefaultConfig()
}

func (s *ConfigStore) Store(cfg collision.Config) {
	s.cfg.Store(&cfg)
}

// Reload replaces the config with the parsed file. A bad file leaves the
// current config in place.
func (s *ConfigStore) Reload(name string) error {
	cfg, err := LoadConfig(name)
	if err != nil {
		return err
	}
	s.Store(cfg)
	return nil
}

// Follow reloads the config whenever the watcher reports name. Other changed
// files are passed on through the returned channel, dropped when it is full.
// The channel closes with the watcher.
func (s *ConfigStore) Follow(w *Watcher, name string) <-chan string {
	others := make(chan string, 16)
	go func() {
		defer close(others)
		for path := range w.Events {
			if filepath.Base(path) == filepath.Base(name) {
				if err := s.Reload(name); err != nil {
					log.Printf("prefabs: reload %s: %v", name, err)
					continue
				}
				log.Printf("prefabs: reloaded %s", name)
				continue
			}
			select {
			case others <- path:
			default:
			}
		}
	}()
	return others
}
