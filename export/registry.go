package export

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned for an encoder name that was never
// registered.
var ErrUnknownFormat = errors.New("export: unknown format")

// Encoder writes a rasterized image in one file format.
type Encoder interface {
	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error

	// Extension returns the file extension without the dot, e.g. "png".
	Extension() string

	// MediaType returns the MIME type of the output.
	MediaType() string
}

// EncoderFactory creates an encoder configured by the export options.
type EncoderFactory func(o Options) Encoder

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	encoders   = make(map[string]EncoderFactory)
)

// Register registers an encoder factory under a format name. Names are
// case-insensitive. It is typically called from init() in encoder
// packages:
//
//	func init() {
//	    export.Register("pdf", func(o export.Options) export.Encoder {
//	        return &Encoder{}
//	    })
//	}
//
// Register panics if factory is nil or the name is already registered.
func Register(name string, factory EncoderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("export: Register factory is nil")
	}
	name = strings.ToLower(name)
	if _, dup := encoders[name]; dup {
		panic("export: Register called twice for " + name)
	}
	encoders[name] = factory
}

// Unregister removes an encoder from the registry. It is a no-op for
// unknown names.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(encoders, strings.ToLower(name))
}

// NewEncoder creates an encoder by format name.
func NewEncoder(name string, opts ...Option) (Encoder, error) {
	registryMu.RLock()
	factory, ok := encoders[strings.ToLower(name)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownFormat, name)
	}
	return factory(newOptions(opts)), nil
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a format name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := encoders[strings.ToLower(name)]
	return ok
}
