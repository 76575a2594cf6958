package openai

import (
	"fmt"
	"sync"
)

// The provider client is the one expensive process-wide resource in the
// pipeline. Shared hands out a single lazily created Embedder per provider
// configuration, so repeated encodes with the same settings never rebuild it.

var (
	sharedMu sync.Mutex
	shared   map[string]*Embedder
)

// Shared returns the process-wide Embedder for cfg, creating it on first use.
// Two configs differing only in Logger share one handle.
func Shared(cfg *Config) *Embedder {
	key := fmt.Sprintf("%s|%s|%s|%d", cfg.Provider, cfg.BaseURL, cfg.Model, cfg.Dimensions)

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = make(map[string]*Embedder)
	}
	if e, ok := shared[key]; ok {
		return e
	}

	e := NewEmbedder(cfg)
	shared[key] = e
	return e
}
