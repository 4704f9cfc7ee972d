// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package orchestrator

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/contract"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
)

type deployCall struct {
	name string
	args []any
	// instances already settled when the deploy was submitted
	settled map[string]common.Address
}

// fakeChain is an in memory chain. Each deploy gets a fresh address, and
// registries are maps keyed by setter and slot.
type fakeChain struct {
	lock        sync.Mutex
	next        int64
	settled     map[string]common.Address
	storage     map[string]common.Address
	deployCalls []deployCall
	linkCalls   int
	inFlight    int
	maxInFlight int

	delays     map[string]time.Duration
	failDeploy map[string]error
	emptyAddr  map[string]bool
	failLink   map[string]error
	// targets whose stored address gets overwritten after being set
	tampered map[string]bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		next:       0x1000,
		settled:    map[string]common.Address{},
		storage:    map[string]common.Address{},
		delays:     map[string]time.Duration{},
		failDeploy: map[string]error{},
		emptyAddr:  map[string]bool{},
		failLink:   map[string]error{},
		tampered:   map[string]bool{},
	}
}

func (c *fakeChain) enter() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
}

func (c *fakeChain) exit() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.inFlight--
}

func (c *fakeChain) Deploy(ctx context.Context, name string, args []any) (contract.Deployment, error) {
	c.enter()
	defer c.exit()
	c.lock.Lock()
	settled := make(map[string]common.Address, len(c.settled))
	for k, v := range c.settled {
		settled[k] = v
	}
	c.deployCalls = append(c.deployCalls, deployCall{name: name, args: args, settled: settled})
	delay := c.delays[name]
	c.lock.Unlock()

	select {
	case <-ctx.Done():
		return contract.Deployment{}, ctx.Err()
	case <-time.After(delay):
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if err := c.failDeploy[name]; err != nil {
		return contract.Deployment{}, err
	}
	if c.emptyAddr[name] {
		return contract.Deployment{TxHash: common.HexToHash("0x01")}, nil
	}
	c.next++
	addr := common.BigToAddress(big.NewInt(c.next))
	c.settled[name] = addr
	return contract.Deployment{
		Address:     addr,
		TxHash:      common.BigToHash(big.NewInt(c.next)),
		BlockNumber: uint64(c.next),
		GasUsed:     100_000,
	}, nil
}

func storageKey(registry common.Address, link plan.LinkCall) string {
	if link.Slot != nil {
		return fmt.Sprintf("%s/%s/%d", registry.Hex(), link.Setter, *link.Slot)
	}
	return fmt.Sprintf("%s/%s", registry.Hex(), link.Setter)
}

func (c *fakeChain) Link(
	_ context.Context,
	registry common.Address,
	link plan.LinkCall,
	target common.Address,
) (common.Hash, error) {
	c.enter()
	defer c.exit()
	c.lock.Lock()
	defer c.lock.Unlock()
	c.linkCalls++
	if err := c.failLink[link.Target]; err != nil {
		return common.Hash{}, err
	}
	c.storage[storageKey(registry, link)] = target
	if c.tampered[link.Target] {
		c.storage[storageKey(registry, link)] = common.HexToAddress("0xdead")
	}
	return common.HexToHash("0x02"), nil
}

func (c *fakeChain) Read(
	_ context.Context,
	registry common.Address,
	link plan.LinkCall,
) (common.Address, error) {
	c.enter()
	defer c.exit()
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.storage[storageKey(registry, link)], nil
}

func (c *fakeChain) callsTo(name string) []deployCall {
	c.lock.Lock()
	defer c.lock.Unlock()
	calls := []deployCall{}
	for _, call := range c.deployCalls {
		if call.name == name {
			calls = append(calls, call)
		}
	}
	return calls
}
