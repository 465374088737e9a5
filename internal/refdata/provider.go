package refdata

import (
	"fmt"
	"sync/atomic"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// Provider hands out immutable snapshots of the reference tables. Reload swaps
// in a freshly loaded set; projections already holding a snapshot keep theirs.
type Provider struct {
	dir     string
	current atomic.Pointer[domain.ReferenceData]
}

// NewProvider loads the tables from dir, or the embedded tables when dir is empty
func NewProvider(dir string) (*Provider, error) {
	p := &Provider{dir: dir}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticProvider serves a fixed set of tables
func NewStaticProvider(ref *domain.ReferenceData) *Provider {
	p := &Provider{}
	p.current.Store(ref)
	return p
}

// Snapshot returns the current tables. Callers must not modify them.
func (p *Provider) Snapshot() *domain.ReferenceData {
	return p.current.Load()
}

// Reload re-reads the tables. On failure the previous snapshot stays active.
func (p *Provider) Reload() error {
	var (
		ref *domain.ReferenceData
		err error
	)
	if p.dir == "" {
		if p.current.Load() != nil {
			return nil
		}
		ref, err = LoadDefault()
	} else {
		ref, err = LoadDir(p.dir)
	}
	if err != nil {
		return fmt.Errorf("reload reference data: %w", err)
	}
	p.current.Store(ref)
	return nil
}

// Source describes where the current tables came from
func (p *Provider) Source() string {
	if ref := p.current.Load(); ref != nil {
		return ref.Source
	}
	return ""
}
