// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plan describes what a migration deploys and how the deployed
// instances are wired together.
package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const refPrefix = "$"

//go:embed default.yaml
var defaultPlan []byte

var (
	ErrEmptyPlan           = errors.New("plan has no artifacts")
	ErrDuplicateArtifact   = errors.New("artifact listed more than once")
	ErrUnknownArtifact     = constants.ErrUnknownArtifact
	ErrCyclicReferences    = errors.New("cyclic constructor references")
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// ArtifactSpec is a contract to deploy together with its constructor arguments.
// A string argument $Name stands for the address of the instance of Name.
type ArtifactSpec struct {
	Name string `yaml:"name"`
	Args []any  `yaml:"args,omitempty"`
}

// LinkCall records the address of [Target] inside [Registry], using [Setter],
// and reads it back with [Getter]. With a [Slot] the calls are
// setter(slot, address) and getter(slot), otherwise setter(address) and getter().
type LinkCall struct {
	Registry string `yaml:"registry"`
	Setter   string `yaml:"setter"`
	Getter   string `yaml:"getter"`
	Slot     *int64 `yaml:"slot,omitempty"`
	Target   string `yaml:"target"`
	Required *bool  `yaml:"required,omitempty"`
}

type Plan struct {
	Artifacts []ArtifactSpec `yaml:"artifacts"`
	Links     []LinkCall     `yaml:"links,omitempty"`
}

// Default returns the plan shipped with the CLI
func Default() (*Plan, error) {
	return Parse(defaultPlan)
}

// Load reads and validates the plan at [path]
func Load(fs afero.Fs, path string) (*Plan, error) {
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failure reading plan %s: %w", path, err)
	}
	p, err := Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return p, nil
}

func Parse(bs []byte) (*Plan, error) {
	p := &Plan{}
	if err := yaml.Unmarshal(bs, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Names returns the artifact names, in plan order
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Artifacts))
	for _, a := range p.Artifacts {
		names = append(names, a.Name)
	}
	return names
}

func (p *Plan) Validate() error {
	if len(p.Artifacts) == 0 {
		return ErrEmptyPlan
	}
	known := map[string]bool{}
	for _, a := range p.Artifacts {
		if a.Name == "" {
			return fmt.Errorf("artifact without name")
		}
		if known[a.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateArtifact, a.Name)
		}
		known[a.Name] = true
	}
	for _, a := range p.Artifacts {
		for _, ref := range a.References() {
			if !known[ref] {
				return fmt.Errorf("%w %q referenced by %s", ErrUnknownArtifact, ref, a.Name)
			}
			if ref == a.Name {
				return fmt.Errorf("%w: %s references itself", ErrCyclicReferences, a.Name)
			}
		}
	}
	for i, l := range p.Links {
		if !known[l.Registry] {
			return fmt.Errorf("link #%d: %w %q", i, ErrUnknownArtifact, l.Registry)
		}
		if !known[l.Target] {
			return fmt.Errorf("link #%d: %w %q", i, ErrUnknownArtifact, l.Target)
		}
		if l.Setter == "" || l.Getter == "" {
			return fmt.Errorf("link #%d: both setter and getter are needed", i)
		}
	}
	_, err := p.Waves()
	return err
}

// Waves groups the artifacts so that every artifact comes after the ones
// its constructor references. Plan order is kept inside each wave.
func (p *Plan) Waves() ([][]ArtifactSpec, error) {
	done := map[string]bool{}
	pending := p.Artifacts
	waves := [][]ArtifactSpec{}
	for len(pending) > 0 {
		wave := []ArtifactSpec{}
		rest := []ArtifactSpec{}
		for _, a := range pending {
			ready := true
			for _, ref := range a.References() {
				if !done[ref] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, a)
			} else {
				rest = append(rest, a)
			}
		}
		if len(wave) == 0 {
			names := []string{}
			for _, a := range rest {
				names = append(names, a.Name)
			}
			return nil, fmt.Errorf("%w among %s", ErrCyclicReferences, strings.Join(names, ", "))
		}
		for _, a := range wave {
			done[a.Name] = true
		}
		waves = append(waves, wave)
		pending = rest
	}
	return waves, nil
}

// References returns the names of the instances the constructor
// arguments of [a] point to
func (a ArtifactSpec) References() []string {
	refs := []string{}
	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			if ref, ok := reference(t); ok && !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		}
	}
	for _, arg := range a.Args {
		walk(arg)
	}
	return refs
}

// ResolveArgs replaces the references in the constructor arguments of [a]
// with the addresses in [addresses]
func (a ArtifactSpec) ResolveArgs(addresses map[string]common.Address) ([]any, error) {
	var resolve func(v any) (any, error)
	resolve = func(v any) (any, error) {
		switch t := v.(type) {
		case string:
			ref, ok := reference(t)
			if !ok {
				return t, nil
			}
			addr, ok := addresses[ref]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, t)
			}
			return addr, nil
		case []any:
			out := make([]any, 0, len(t))
			for _, e := range t {
				r, err := resolve(e)
				if err != nil {
					return nil, err
				}
				out = append(out, r)
			}
			return out, nil
		}
		return v, nil
	}
	args := make([]any, 0, len(a.Args))
	for _, arg := range a.Args {
		r, err := resolve(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, r)
	}
	return args, nil
}

func reference(s string) (string, bool) {
	if !strings.HasPrefix(s, refPrefix) || len(s) == len(refPrefix) {
		return "", false
	}
	return s[len(refPrefix):], true
}

// IsRequired tells if a failure of this link fails the run. Links are
// required unless stated otherwise.
func (l LinkCall) IsRequired() bool {
	return l.Required == nil || *l.Required
}

func (l LinkCall) SetterArgs(target common.Address) []any {
	if l.Slot != nil {
		return []any{*l.Slot, target}
	}
	return []any{target}
}

func (l LinkCall) GetterArgs() []any {
	if l.Slot != nil {
		return []any{*l.Slot}
	}
	return nil
}

func (l LinkCall) String() string {
	if l.Slot != nil {
		return fmt.Sprintf("%s[%d] -> %s", l.Registry, *l.Slot, l.Target)
	}
	return fmt.Sprintf("%s.%s -> %s", l.Registry, l.Setter, l.Target)
}
