package identity

import (
	"os"
	"strings"
	"sync"
)

// Resolver yields the local node's identifier. ok is false while the
// identifier is unknown.
type Resolver interface {
	LocalIdentifier() (id string, ok bool)
}

// LookupFunc returns the raw identifier, typically the host name.
type LookupFunc func() (string, error)

// HostnameResolver resolves the identifier lazily and caches the first
// non-blank success for its lifetime. Failed or blank lookups are not cached,
// so later calls try again.
type HostnameResolver struct {
	mu       sync.Mutex
	lookup   LookupFunc
	id       string
	resolved bool
}

// NewHostnameResolver creates a resolver using lookup. A nil lookup uses os.Hostname.
func NewHostnameResolver(lookup LookupFunc) *HostnameResolver {
	if lookup == nil {
		lookup = os.Hostname
	}
	return &HostnameResolver{lookup: lookup}
}

// LocalIdentifier returns the cached identifier, resolving it on first use.
func (r *HostnameResolver) LocalIdentifier() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.id, true
	}
	name, err := r.lookup()
	if err != nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	r.id = name
	r.resolved = true
	return r.id, true
}

var (
	defaultOnce     sync.Once
	defaultResolver *HostnameResolver
)

// Default returns the process-wide hostname resolver.
func Default() *HostnameResolver {
	defaultOnce.Do(func() {
		defaultResolver = NewHostnameResolver(nil)
	})
	return defaultResolver
}

// static is a fixed identifier.
type static string

// Static returns a resolver that always reports id. A blank id reports
// not resolved.
func Static(id string) Resolver {
	return static(strings.TrimSpace(id))
}

func (s static) LocalIdentifier() (string, bool) {
	return string(s), s != ""
}
