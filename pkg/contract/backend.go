// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"errors"
	"fmt"

	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/common"
	"github.com/okeydokey/okeydokey-cli/pkg/artifact"
	"github.com/okeydokey/okeydokey-cli/pkg/evm"
)

var (
	ErrReceiptFailed = errors.New("failed receipt status")
	ErrNoCode        = errors.New("no contract code at address")
)

// Deployment is the on chain outcome of a contract creation
type Deployment struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// Backend deploys and interacts with contracts. [Sender] may be nil
// for read only usage.
type Backend struct {
	Client evm.Client
	Sender evm.Sender
}

// Deploy creates an instance of [a], passing [args] to its constructor
func (b Backend) Deploy(
	ctx context.Context,
	a *artifact.Artifact,
	args ...any,
) (Deployment, error) {
	if b.Sender == nil {
		return Deployment{}, fmt.Errorf("deploying %s: no sender configured", a.Name)
	}
	converted, err := ConvertArgs(a.ABI.Constructor.Inputs, args)
	if err != nil {
		return Deployment{}, fmt.Errorf("invalid constructor arguments for %s: %w", a.Name, err)
	}
	packed, err := a.ABI.Pack("", converted...)
	if err != nil {
		return Deployment{}, fmt.Errorf("failure packing constructor arguments for %s: %w", a.Name, err)
	}
	data := append(append([]byte{}, a.Bytecode...), packed...)
	txHash, err := b.Sender.Send(ctx, evm.TxRequest{Data: data})
	if err != nil {
		return Deployment{}, fmt.Errorf("deploying %s: %w", a.Name, err)
	}
	receipt, success, err := b.Client.WaitForReceipt(ctx, txHash)
	if err != nil {
		return Deployment{}, evm.TransactionError(&txHash, err, "deploying %s", a.Name)
	}
	if !success {
		return Deployment{}, evm.TransactionError(&txHash, ErrReceiptFailed, "deploying %s", a.Name)
	}
	deployment := Deployment{
		Address:     receipt.ContractAddress,
		TxHash:      txHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}
	if deployed, err := b.Client.ContractAlreadyDeployed(ctx, deployment.Address); err != nil {
		return deployment, err
	} else if !deployed {
		return deployment, evm.TransactionError(
			&txHash,
			fmt.Errorf("%w %s", ErrNoCode, deployment.Address.Hex()),
			"deploying %s",
			a.Name,
		)
	}
	return deployment, nil
}

// Transact sends a transaction to method [m] of the contract at [to], and waits
// for it to be accepted
func (b Backend) Transact(
	ctx context.Context,
	to common.Address,
	m Method,
	args ...any,
) (common.Hash, error) {
	if b.Sender == nil {
		return common.Hash{}, fmt.Errorf("calling %s: no sender configured", m.Name)
	}
	data, err := m.pack(args)
	if err != nil {
		return common.Hash{}, err
	}
	txHash, err := b.Sender.Send(ctx, evm.TxRequest{To: &to, Data: data})
	if err != nil {
		return common.Hash{}, fmt.Errorf("calling %s on %s: %w", m.Name, to.Hex(), err)
	}
	_, success, err := b.Client.WaitForReceipt(ctx, txHash)
	if err != nil {
		return txHash, evm.TransactionError(&txHash, err, "calling %s on %s", m.Name, to.Hex())
	}
	if !success {
		return txHash, evm.TransactionError(&txHash, ErrReceiptFailed, "calling %s on %s", m.Name, to.Hex())
	}
	return txHash, nil
}

// Call executes read only method [m] of the contract at [to]
func (b Backend) Call(
	ctx context.Context,
	to common.Address,
	m Method,
	args ...any,
) ([]any, error) {
	data, err := m.pack(args)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}
	if b.Sender != nil {
		msg.From = b.Sender.Address()
	}
	out, err := b.Client.CallContract(ctx, msg)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 && len(m.Outputs()) > 0 {
		return nil, fmt.Errorf("%w %s: %s returned no data", ErrNoCode, to.Hex(), m.Name)
	}
	return m.ABI.Unpack(m.Name, out)
}

// CodeAt returns the code deployed at [address]
func (b Backend) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	return b.Client.GetContractBytecode(ctx, address)
}

func (m Method) pack(args []any) ([]byte, error) {
	converted, err := ConvertArgs(m.Inputs(), args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", m.Name, err)
	}
	data, err := m.ABI.Pack(m.Name, converted...)
	if err != nil {
		return nil, fmt.Errorf("failure packing arguments for %s: %w", m.Name, err)
	}
	return data, nil
}
