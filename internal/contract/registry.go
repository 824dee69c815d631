package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrContractNotFound is returned when a registry has no entry of that name.
var ErrContractNotFound = errors.New("contract not found")

// Entry is a stored ABI, optionally bound to a deployed address.
type Entry struct {
	Name    string     `json:"name"`
	Address string     `json:"address,omitempty"`
	Source  string     `json:"source,omitempty"` // file path, URL or "explorer"
	ABI     []ABIEntry `json:"abi"`
}

// Registry stores and retrieves named ABIs in a JSON file.
type Registry struct {
	path    string
	entries map[string]*Entry
}

// NewRegistry creates a Registry backed by a JSON file.
func NewRegistry(path string) *Registry {
	return &Registry{
		path:    path,
		entries: make(map[string]*Entry),
	}
}

// Load reads stored entries from disk. A missing file is an empty registry.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", r.path, err)
	}
	for i := range entries {
		e := &entries[i]
		r.entries[e.Name] = e
	}
	return nil
}

// Save writes all entries to disk, sorted by name.
func (r *Registry) Save() error {
	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.All() {
		entries = append(entries, *e)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}

// Add adds or replaces an entry.
func (r *Registry) Add(e *Entry) {
	r.entries[e.Name] = e
}

// Get returns an entry by name.
func (r *Registry) Get(name string) (*Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	return e, nil
}

// All returns all entries sorted by name.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Remove deletes an entry.
func (r *Registry) Remove(name string) error {
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, name)
	}
	delete(r.entries, name)
	return nil
}
