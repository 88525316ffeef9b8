// Package profiles manages YAML-based grouping profile configuration.
//
// A profile names a reusable set of grouping parameters. Processing
// jobs reference profiles by name so operators can tune clustering for
// different survey shapes without touching per-request parameters.
package profiles

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/thebtf/collate/pkg/grouping"
)

// DefaultName is the profile applied when a job names none.
const DefaultName = "default"

// Profile describes one named set of grouping parameters.
type Profile struct {
	Name            string
	Description     string
	Threshold       int
	RemoveStopwords bool
	ExtraStopwords  []string
}

// profileSpec is one YAML profile entry. Threshold is a pointer so an
// explicit 0 stays distinguishable from an omitted value, which
// inherits the default profile's threshold.
type profileSpec struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Threshold       *int     `yaml:"threshold"`
	RemoveStopwords bool     `yaml:"remove_stopwords"`
	ExtraStopwords  []string `yaml:"extra_stopwords"`
}

// fileConfig is the top-level YAML structure.
type fileConfig struct {
	Profiles []profileSpec `yaml:"profiles"`
}

// Registry holds loaded profiles, keyed by name. A registry always
// contains a profile named "default".
type Registry struct {
	byName map[string]*Profile
	order  []string // preserves definition order, default first
}

// Clusterer builds the clustering pipeline configured by this profile.
func (p *Profile) Clusterer() *grouping.Clusterer {
	if p == nil {
		return grouping.NewClusterer(grouping.NewNormalizer(false, nil), grouping.DefaultThreshold)
	}
	normalizer := grouping.NewNormalizer(p.RemoveStopwords, p.ExtraStopwords)
	return grouping.NewClusterer(normalizer, p.Threshold)
}

// Load reads the YAML file at path and returns a Registry seeded with
// the given fallback as the "default" profile. If the file does not
// exist, Load returns a Registry holding only the default (not an
// error). A file entry named "default" replaces the fallback.
func Load(path string, fallback Profile) (*Registry, error) {
	fallback.Name = DefaultName

	r := &Registry{byName: make(map[string]*Profile)}
	r.put(&fallback)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(cfg.Profiles))
	for i := range cfg.Profiles {
		spec := &cfg.Profiles[i]
		if spec.Name == "" {
			return nil, fmt.Errorf("profile %d: name is required", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("profile %q: duplicate name", spec.Name)
		}
		seen[spec.Name] = true

		p := &Profile{
			Name:            spec.Name,
			Description:     spec.Description,
			Threshold:       fallback.Threshold,
			RemoveStopwords: spec.RemoveStopwords,
			ExtraStopwords:  spec.ExtraStopwords,
		}
		if spec.Threshold != nil {
			if *spec.Threshold < 0 || *spec.Threshold > 100 {
				return nil, fmt.Errorf("profile %q: threshold %d outside 0..100", spec.Name, *spec.Threshold)
			}
			p.Threshold = *spec.Threshold
		}

		r.put(p)
	}

	return r, nil
}

func (r *Registry) put(p *Profile) {
	if _, exists := r.byName[p.Name]; !exists {
		r.order = append(r.order, p.Name)
	}
	r.byName[p.Name] = p
}

// Get returns a profile by name. Returns (nil, false) if not found.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Resolve returns the named profile, falling back to the default when
// name is empty. Unknown names return an error so jobs fail loudly
// instead of silently grouping with the wrong parameters.
func (r *Registry) Resolve(name string) (*Profile, error) {
	if name == "" {
		name = DefaultName
	}
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown grouping profile %q", name)
	}
	return p, nil
}

// Default returns the default profile.
func (r *Registry) Default() *Profile {
	return r.byName[DefaultName]
}

// All returns all profiles in definition order, default first.
func (r *Registry) All() []*Profile {
	result := make([]*Profile, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.byName[name])
	}
	return result
}

// Names returns a sorted list of profile names.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
