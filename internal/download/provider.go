package download

import (
	"context"
	"sort"
	"strings"

	pkgerrors "stealthspanner/pkg/errors"
)

// Provider downloads VPN configuration files into a directory and returns
// the number of files placed there. On total failure it must leave any
// pre-existing files in the directory untouched.
type Provider interface {
	// Name returns the provider identifier ("ipvanish").
	Name() string
	// Download populates dir with configuration files fetched from baseURL.
	Download(ctx context.Context, dir, baseURL string) (int, error)
}

// Registry manages download providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry with the built-in providers registered.
func NewRegistry() *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
	}

	r.Register(NewIPVanish(NewFetcher(DefaultFetcherConfig())))

	return r
}

// Register registers a provider.
func (r *Registry) Register(p Provider) {
	r.providers[strings.ToLower(p.Name())] = p
}

// Get retrieves a provider by name. Unknown providers are an error, not
// partial behavior.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, &pkgerrors.ProviderError{Provider: name, Err: pkgerrors.ErrProviderUnsupported}
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
