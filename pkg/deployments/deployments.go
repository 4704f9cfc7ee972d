// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployments keeps a per network address book of the last migration run
package deployments

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/orchestrator"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var ErrNoRecord = errors.New("no deployment record found")

type Instance struct {
	Name        string `yaml:"name"`
	Address     string `yaml:"address"`
	TxHash      string `yaml:"txHash"`
	BlockNumber uint64 `yaml:"blockNumber"`
	GasUsed     uint64 `yaml:"gasUsed"`
}

// Link is a registry link, with setter and getter stored as full signatures
// so it can be verified without the artifacts at hand
type Link struct {
	Registry string `yaml:"registry"`
	Setter   string `yaml:"setter"`
	Getter   string `yaml:"getter"`
	Slot     *int64 `yaml:"slot,omitempty"`
	Target   string `yaml:"target"`
	Required bool   `yaml:"required"`
	TxHash   string `yaml:"txHash,omitempty"`
	Error    string `yaml:"error,omitempty"`
	Verified bool   `yaml:"verified"`
}

type Record struct {
	Network    string     `yaml:"network"`
	ChainID    uint64     `yaml:"chainId"`
	From       string     `yaml:"from"`
	DeployedAt time.Time  `yaml:"deployedAt"`
	Instances  []Instance `yaml:"instances"`
	Links      []Link     `yaml:"links,omitempty"`
	Failures   []string   `yaml:"failures,omitempty"`
}

// MethodResolver gives the setter and getter used by a link
type MethodResolver interface {
	Setter(link plan.LinkCall) (contract.Method, error)
	Getter(link plan.LinkCall) (contract.Method, error)
}

// NewRecord builds the record of a run from its [summary]
func NewRecord(
	network string,
	chainID uint64,
	from common.Address,
	deployedAt time.Time,
	summary *orchestrator.Summary,
	resolver MethodResolver,
) *Record {
	r := &Record{
		Network:    network,
		ChainID:    chainID,
		From:       from.Hex(),
		DeployedAt: deployedAt.UTC(),
		Instances:  []Instance{},
	}
	for _, instance := range summary.Instances {
		r.Instances = append(r.Instances, Instance{
			Name:        instance.Name,
			Address:     instance.Address.Hex(),
			TxHash:      instance.TxHash.Hex(),
			BlockNumber: instance.BlockNumber,
			GasUsed:     instance.GasUsed,
		})
	}
	for _, d := range summary.Deploys {
		if d.Err != nil {
			r.Failures = append(r.Failures, fmt.Sprintf("%s: %s", d.Name, d.Err))
		}
	}
	verified := map[int]bool{}
	for i, v := range summary.Verifications {
		verified[i] = v.Match
	}
	for i, l := range summary.Links {
		link := Link{
			Registry: l.Link.Registry,
			Setter:   methodEsp(resolver.Setter, l.Link, l.Link.Setter),
			Getter:   methodEsp(resolver.Getter, l.Link, l.Link.Getter),
			Slot:     l.Link.Slot,
			Target:   l.Link.Target,
			Required: l.Link.IsRequired(),
			Verified: verified[i],
		}
		if l.Err != nil {
			link.Error = l.Err.Error()
		} else {
			link.TxHash = l.TxHash.Hex()
		}
		r.Links = append(r.Links, link)
	}
	return r
}

func methodEsp(
	resolve func(plan.LinkCall) (contract.Method, error),
	link plan.LinkCall,
	fallback string,
) string {
	m, err := resolve(link)
	if err != nil {
		return fallback
	}
	return m.Esp()
}

// OrchestratorInstances converts the record back into deployed instances
func (r *Record) OrchestratorInstances() (orchestrator.Instances, error) {
	instances := orchestrator.Instances{}
	for _, instance := range r.Instances {
		if !common.IsHexAddress(instance.Address) {
			return nil, fmt.Errorf("invalid address %q recorded for %s", instance.Address, instance.Name)
		}
		instances = append(instances, orchestrator.DeployedInstance{
			Name:        instance.Name,
			Address:     common.HexToAddress(instance.Address),
			TxHash:      common.HexToHash(instance.TxHash),
			BlockNumber: instance.BlockNumber,
			GasUsed:     instance.GasUsed,
		})
	}
	return instances, nil
}

// LinkCalls converts the recorded links back into plan links
func (r *Record) LinkCalls() []plan.LinkCall {
	links := make([]plan.LinkCall, 0, len(r.Links))
	for _, l := range r.Links {
		required := l.Required
		links = append(links, plan.LinkCall{
			Registry: l.Registry,
			Setter:   l.Setter,
			Getter:   l.Getter,
			Slot:     l.Slot,
			Target:   l.Target,
			Required: &required,
		})
	}
	return links
}

// Store reads and writes records as <Dir>/<network>.yaml
type Store struct {
	Fs  afero.Fs
	Dir string
}

func NewStore(fs afero.Fs, dir string) Store {
	return Store{Fs: fs, Dir: dir}
}

func (s Store) Path(network string) string {
	return filepath.Join(s.Dir, network+constants.DeploymentSuffix)
}

func (s Store) Save(r *Record) error {
	if err := s.Fs.MkdirAll(s.Dir, constants.DefaultPerms755); err != nil {
		return err
	}
	bs, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.Fs, s.Path(r.Network), bs, constants.WriteReadReadPerms)
}

func (s Store) Load(network string) (*Record, error) {
	path := s.Path(network)
	bs, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w for network %s at %s", ErrNoRecord, network, path)
		}
		return nil, err
	}
	r := &Record{}
	if err := yaml.Unmarshal(bs, r); err != nil {
		return nil, fmt.Errorf("failure parsing deployment record %s: %w", path, err)
	}
	return r, nil
}
