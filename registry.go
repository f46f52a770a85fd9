package satchel

import (
	"sync"

	"github.com/zoobzio/satchel/document"
)

var (
	registry   = make(map[string]*Serializer)
	registryMu sync.RWMutex
)

// Use returns a cached serializer or builds a new one.
// Serializers are cached by codec content type; options only apply when the
// serializer is first built.
func Use(codec document.Codec, opts ...Option) *Serializer {
	key := codec.ContentType()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached
	}

	s := NewSerializer(codec, opts...)
	registry[key] = s
	return s
}

// Reset clears the serializer cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Serializer)
}
