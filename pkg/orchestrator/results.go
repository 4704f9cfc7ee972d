// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package orchestrator

import (
	"errors"
	"fmt"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
)

var (
	ErrNotDeployed          = errors.New("dependency not deployed")
	ErrVerificationMismatch = errors.New("verification mismatch")
	ErrEmptyAddress         = errors.New("deployment returned an empty address")
)

// DeployedInstance is the on chain realization of an artifact
type DeployedInstance struct {
	Name        string
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

type DeployResult struct {
	Name     string
	Instance *DeployedInstance
	// Skipped is set when the deploy was not attempted because a referenced
	// instance is missing
	Skipped bool
	Err     error
}

type DeployResults []DeployResult

// Instances returns the successfully deployed instances, in plan order
func (r DeployResults) Instances() Instances {
	instances := Instances{}
	for _, result := range r {
		if result.Err == nil && result.Instance != nil {
			instances = append(instances, *result.Instance)
		}
	}
	return instances
}

func (r DeployResults) Failed() int {
	failed := 0
	for _, result := range r {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

type Instances []DeployedInstance

func (instances Instances) Lookup(name string) (DeployedInstance, bool) {
	for _, instance := range instances {
		if instance.Name == name {
			return instance, true
		}
	}
	return DeployedInstance{}, false
}

type LinkResult struct {
	Link   plan.LinkCall
	Target common.Address
	TxHash common.Hash
	Err    error
}

type VerifyResult struct {
	Link     plan.LinkCall
	Expected common.Address
	Actual   common.Address
	Match    bool
	Err      error
}

// Summary collects the outcome of every phase of a run
type Summary struct {
	Deploys       DeployResults
	Instances     Instances
	Links         []LinkResult
	Verifications []VerifyResult
	// Aborted is set when a failure stopped the run before its last phase
	Aborted bool
}

// Err aggregates the failures of required steps. Deploys are always required.
func (s *Summary) Err() error {
	var errs []error
	for _, d := range s.Deploys {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("deploy of %s failed: %w", d.Name, d.Err))
		}
	}
	for _, l := range s.Links {
		if l.Err != nil && l.Link.IsRequired() {
			errs = append(errs, fmt.Errorf("link %s failed: %w", l.Link, l.Err))
		}
	}
	for _, v := range s.Verifications {
		if v.Err != nil && v.Link.IsRequired() {
			errs = append(errs, fmt.Errorf("verification of %s failed: %w", v.Link, v.Err))
		}
	}
	return errors.Join(errs...)
}

// Verified returns how many links were read back with the expected address
func (s *Summary) Verified() int {
	verified := 0
	for _, v := range s.Verifications {
		if v.Match {
			verified++
		}
	}
	return verified
}
