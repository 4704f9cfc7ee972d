// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/artifact"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
)

// Chain is what the orchestrator needs from the network
type Chain interface {
	Deploy(ctx context.Context, name string, args []any) (contract.Deployment, error)
	Link(ctx context.Context, registry common.Address, link plan.LinkCall, target common.Address) (common.Hash, error)
	Read(ctx context.Context, registry common.Address, link plan.LinkCall) (common.Address, error)
}

// ContractChain deploys compiled artifacts and calls registry methods through a
// contract backend. Setters and getters are looked up in the registry artifact
// abi unless given with a full signature.
type ContractChain struct {
	backend   contract.Backend
	artifacts map[string]*artifact.Artifact
}

func NewContractChain(backend contract.Backend, artifacts map[string]*artifact.Artifact) *ContractChain {
	if artifacts == nil {
		artifacts = map[string]*artifact.Artifact{}
	}
	return &ContractChain{
		backend:   backend,
		artifacts: artifacts,
	}
}

func (c *ContractChain) Deploy(ctx context.Context, name string, args []any) (contract.Deployment, error) {
	a, ok := c.artifacts[name]
	if !ok {
		return contract.Deployment{}, fmt.Errorf("%w: %s", constants.ErrUnknownArtifact, name)
	}
	return c.backend.Deploy(ctx, a, args...)
}

func (c *ContractChain) Link(
	ctx context.Context,
	registry common.Address,
	link plan.LinkCall,
	target common.Address,
) (common.Hash, error) {
	setter, err := c.Setter(link)
	if err != nil {
		return common.Hash{}, err
	}
	return c.backend.Transact(ctx, registry, setter, link.SetterArgs(target)...)
}

func (c *ContractChain) Read(
	ctx context.Context,
	registry common.Address,
	link plan.LinkCall,
) (common.Address, error) {
	getter, err := c.Getter(link)
	if err != nil {
		return common.Address{}, err
	}
	out, err := c.backend.Call(ctx, registry, getter, link.GetterArgs()...)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("expected %s to return one value, got %d", getter.Esp(), len(out))
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("expected %s to return an address, got %T", getter.Esp(), out[0])
	}
	return addr, nil
}

// Getter resolves the read back method of [link]
func (c *ContractChain) Getter(link plan.LinkCall) (contract.Method, error) {
	return contract.ResolveMethod(c.registryABI(link), link.Getter, true)
}

// Setter resolves the write method of [link]
func (c *ContractChain) Setter(link plan.LinkCall) (contract.Method, error) {
	return contract.ResolveMethod(c.registryABI(link), link.Setter, false)
}

func (c *ContractChain) registryABI(link plan.LinkCall) abi.ABI {
	if a, ok := c.artifacts[link.Registry]; ok {
		return a.ABI
	}
	return abi.ABI{}
}
