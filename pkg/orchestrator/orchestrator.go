// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package orchestrator deploys a set of contracts, wires their addresses
// into registry contracts, reads the wiring back and reports the result.
//
// Phases are strictly ordered: every deploy settles before the first setter
// call, every setter call settles before the first read back. Inside a phase
// operations run concurrently, and a failure never cancels its siblings.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"github.com/chelnak/ysmrr"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/plan"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	// max number of in flight operations per phase
	Concurrency int
	// stop after the first phase with a failed required step
	FailFast bool
	// skip the read back phase
	SkipVerify bool
	// show a spinner while a phase is pending
	Spinners bool
}

type Orchestrator struct {
	chain  Chain
	log    logging.Logger
	config Config
}

func New(chain Chain, log logging.Logger, config Config) *Orchestrator {
	if config.Concurrency <= 0 {
		config.Concurrency = constants.DefaultConcurrency
	}
	return &Orchestrator{
		chain:  chain,
		log:    log,
		config: config,
	}
}

// Run executes deploy, wire, verify and report over [p]
func (o *Orchestrator) Run(ctx context.Context, p *plan.Plan) (*Summary, error) {
	summary := &Summary{}
	deploys, err := o.DeployAll(ctx, p.Artifacts)
	if err != nil {
		return nil, err
	}
	summary.Deploys = deploys
	summary.Instances = deploys.Instances()
	if o.config.FailFast && summary.Err() != nil {
		summary.Aborted = true
		o.Report(summary.Instances)
		return summary, nil
	}
	if len(p.Links) > 0 {
		summary.Links = o.Wire(ctx, summary.Instances, p.Links)
		if o.config.FailFast && summary.Err() != nil {
			summary.Aborted = true
			o.Report(summary.Instances)
			return summary, nil
		}
		if !o.config.SkipVerify {
			summary.Verifications = o.Verify(ctx, summary.Instances, p.Links)
		}
	}
	o.Report(summary.Instances)
	return summary, nil
}

// DeployAll deploys every artifact. Artifacts whose constructor references
// another instance are deployed after it settled, and skipped if it failed.
// The returned error is only set for an invalid artifact list.
func (o *Orchestrator) DeployAll(ctx context.Context, artifacts []plan.ArtifactSpec) (DeployResults, error) {
	p := plan.Plan{Artifacts: artifacts}
	waves, err := p.Waves()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(artifacts))
	for i, a := range artifacts {
		index[a.Name] = i
	}
	results := make(DeployResults, len(artifacts))
	addresses := map[string]common.Address{}
	for _, wave := range waves {
		spinner, done := o.spinPhase("Deploying %s", names(wave))
		g := errgroup.Group{}
		g.SetLimit(o.config.Concurrency)
		for _, spec := range wave {
			i := index[spec.Name]
			if missing := missingReferences(spec, addresses); len(missing) > 0 {
				results[i] = DeployResult{
					Name:    spec.Name,
					Skipped: true,
					Err:     fmt.Errorf("%w: %s", ErrNotDeployed, strings.Join(missing, ", ")),
				}
				continue
			}
			args, err := spec.ResolveArgs(addresses)
			if err != nil {
				results[i] = DeployResult{Name: spec.Name, Skipped: true, Err: err}
				continue
			}
			g.Go(func() error {
				results[i] = o.deploy(ctx, spec.Name, args)
				return nil
			})
		}
		_ = g.Wait()
		failed := 0
		for _, spec := range wave {
			if results[index[spec.Name]].Err != nil {
				failed++
			}
		}
		done(spinner, failed)
		for _, spec := range wave {
			result := results[index[spec.Name]]
			if result.Err != nil {
				o.log.Error("deployment failed", zap.String("contract", spec.Name), zap.Error(result.Err))
				ux.Logger.RedXToUser("%s not deployed: %s", spec.Name, result.Err)
				continue
			}
			addresses[spec.Name] = result.Instance.Address
			ux.Logger.GreenCheckmarkToUser("%s deployed at %s", spec.Name, result.Instance.Address.Hex())
		}
	}
	return results, nil
}

func (o *Orchestrator) deploy(ctx context.Context, name string, args []any) DeployResult {
	o.log.Debug("deploying", zap.String("contract", name), zap.Int("args", len(args)))
	deployment, err := o.chain.Deploy(ctx, name, args)
	if err != nil {
		return DeployResult{Name: name, Err: err}
	}
	if deployment.Address == (common.Address{}) {
		return DeployResult{Name: name, Err: ErrEmptyAddress}
	}
	o.log.Info("deployed",
		zap.String("contract", name),
		zap.Stringer("address", deployment.Address),
		zap.Stringer("txHash", deployment.TxHash),
		zap.Uint64("gasUsed", deployment.GasUsed),
	)
	return DeployResult{
		Name: name,
		Instance: &DeployedInstance{
			Name:        name,
			Address:     deployment.Address,
			TxHash:      deployment.TxHash,
			BlockNumber: deployment.BlockNumber,
			GasUsed:     deployment.GasUsed,
		},
	}
}

// Wire issues every setter call of [links] concurrently
func (o *Orchestrator) Wire(ctx context.Context, instances Instances, links []plan.LinkCall) []LinkResult {
	results := make([]LinkResult, len(links))
	spinner, done := o.spinPhase("Wiring %d links", len(links))
	g := errgroup.Group{}
	g.SetLimit(o.config.Concurrency)
	for i, link := range links {
		registry, target, err := endpoints(instances, link)
		if err != nil {
			results[i] = LinkResult{Link: link, Err: err}
			continue
		}
		g.Go(func() error {
			txHash, err := o.chain.Link(ctx, registry.Address, link, target.Address)
			results[i] = LinkResult{Link: link, Target: target.Address, TxHash: txHash, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	done(spinner, failed)
	for _, result := range results {
		if result.Err != nil {
			o.log.Error("link failed",
				zap.Stringer("link", result.Link),
				zap.Bool("required", result.Link.IsRequired()),
				zap.Error(result.Err),
			)
			ux.Logger.RedXToUser("%s%s failed: %s", result.Link, optional(result.Link), result.Err)
			continue
		}
		ux.Logger.GreenCheckmarkToUser("%s set to %s", result.Link, result.Target.Hex())
	}
	return results
}

// Verify reads every link back and compares it with the address of its target
func (o *Orchestrator) Verify(ctx context.Context, instances Instances, links []plan.LinkCall) []VerifyResult {
	results := make([]VerifyResult, len(links))
	spinner, done := o.spinPhase("Verifying %d links", len(links))
	g := errgroup.Group{}
	g.SetLimit(o.config.Concurrency)
	for i, link := range links {
		registry, target, err := endpoints(instances, link)
		if err != nil {
			results[i] = VerifyResult{Link: link, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = o.verify(ctx, registry.Address, link, target.Address)
			return nil
		})
	}
	_ = g.Wait()
	failed := 0
	for _, result := range results {
		if !result.Match {
			failed++
		}
	}
	done(spinner, failed)
	for _, result := range results {
		if result.Match {
			ux.Logger.GreenCheckmarkToUser("%s verified: %s", result.Link, result.Actual.Hex())
			continue
		}
		o.log.Error("verification failed", zap.Stringer("link", result.Link), zap.Error(result.Err))
		ux.Logger.RedXToUser("%s%s verification failed: %s", result.Link, optional(result.Link), result.Err)
	}
	return results
}

func (o *Orchestrator) verify(
	ctx context.Context,
	registry common.Address,
	link plan.LinkCall,
	expected common.Address,
) VerifyResult {
	result := VerifyResult{Link: link, Expected: expected}
	actual, err := o.chain.Read(ctx, registry, link)
	if err != nil {
		result.Err = err
		return result
	}
	result.Actual = actual
	result.Match = actual == expected
	if !result.Match {
		result.Err = fmt.Errorf("%w: expected %s, got %s", ErrVerificationMismatch, expected.Hex(), actual.Hex())
	}
	return result
}

// Report prints the name and address of every instance
func (o *Orchestrator) Report(instances Instances) {
	Report(instances)
}

// Report prints the name and address of every instance
func Report(instances Instances) {
	t := ux.DefaultTable("Deployed Contracts", table.Row{"Contract", "Address", "Block", "Gas Used"})
	for _, instance := range instances {
		t.AppendRow(table.Row{
			instance.Name,
			instance.Address.Hex(),
			instance.BlockNumber,
			ux.ConvertToStringWithThousandSeparator(instance.GasUsed),
		})
	}
	ux.PrintTable(t)
}

// spinPhase starts a spinner for a batch; the returned func ends it, marking
// it failed when any operation of the batch failed
func (o *Orchestrator) spinPhase(msg string, args ...interface{}) (*ysmrr.Spinner, func(*ysmrr.Spinner, int)) {
	if !o.config.Spinners {
		return nil, func(*ysmrr.Spinner, int) {}
	}
	userSpinner := ux.NewUserSpinner()
	spinner := userSpinner.SpinToUser(msg, args...)
	return spinner, func(s *ysmrr.Spinner, failed int) {
		endSpinner(s, failed)
		userSpinner.Stop()
	}
}

func endSpinner(s *ysmrr.Spinner, failed int) {
	if failed > 0 {
		ux.SpinFailWithError(s, "", fmt.Errorf("%d failed", failed))
		return
	}
	ux.SpinComplete(s)
}

func endpoints(instances Instances, link plan.LinkCall) (DeployedInstance, DeployedInstance, error) {
	registry, ok := instances.Lookup(link.Registry)
	if !ok {
		return DeployedInstance{}, DeployedInstance{}, fmt.Errorf("%w: registry %s", ErrNotDeployed, link.Registry)
	}
	target, ok := instances.Lookup(link.Target)
	if !ok {
		return DeployedInstance{}, DeployedInstance{}, fmt.Errorf("%w: target %s", ErrNotDeployed, link.Target)
	}
	return registry, target, nil
}

func missingReferences(spec plan.ArtifactSpec, addresses map[string]common.Address) []string {
	missing := []string{}
	for _, ref := range spec.References() {
		if _, ok := addresses[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing
}

func names(specs []plan.ArtifactSpec) string {
	n := make([]string, 0, len(specs))
	for _, spec := range specs {
		n = append(n, spec.Name)
	}
	return strings.Join(n, ", ")
}

func optional(link plan.LinkCall) string {
	if link.IsRequired() {
		return ""
	}
	return " (optional)"
}
