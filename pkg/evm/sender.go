// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
)

const (
	baseFeeFactor = 2
	// estimations are bumped by gasLimitNumerator/gasLimitDenominator
	gasLimitNumerator   = 12
	gasLimitDenominator = 10
)

// TxRequest describes a transaction to be sent. A nil [To] creates a contract.
type TxRequest struct {
	To    *common.Address
	Data  []byte
	Value *big.Int
}

// FeeConfig mirrors the per network gas settings. Zero values mean "ask the node".
type FeeConfig struct {
	Gas      uint64
	GasPrice *big.Int
}

// Sender submits transactions on behalf of one account
type Sender interface {
	Address() common.Address
	Send(ctx context.Context, req TxRequest) (common.Hash, error)
}

// KeyedSender signs transactions with a key held by the CLI.
// Nonces are allocated locally so that transactions sent concurrently
// from the same account don't collide.
type KeyedSender struct {
	client  Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	fees    FeeConfig

	lock        sync.Mutex
	nonce       uint64
	nonceSynced bool
}

func NewKeyedSender(
	ctx context.Context,
	client Client,
	key *ecdsa.PrivateKey,
	fees FeeConfig,
) (*KeyedSender, error) {
	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failure generating signer: %w", err)
	}
	return &KeyedSender{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		fees:    fees,
	}, nil
}

func (s *KeyedSender) Address() common.Address {
	return s.address
}

func (s *KeyedSender) Send(ctx context.Context, req TxRequest) (common.Hash, error) {
	gas, err := gasLimit(ctx, s.client, s.address, s.fees, req)
	if err != nil {
		return common.Hash{}, err
	}
	// the lock spans nonce allocation and submission, so the node receives
	// the transactions in nonce order
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.nonceSynced {
		nonce, err := s.client.PendingNonceAt(ctx, s.address)
		if err != nil {
			return common.Hash{}, err
		}
		s.nonce = nonce
		s.nonceSynced = true
	}
	tx, err := s.newTx(ctx, s.nonce, gas, req)
	if err != nil {
		return common.Hash{}, err
	}
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		// the nonce may or may not have been consumed
		s.nonceSynced = false
		return common.Hash{}, TransactionError(nil, err, "failure sending tx from %s", s.address.Hex())
	}
	s.nonce++
	return signedTx.Hash(), nil
}

func (s *KeyedSender) newTx(
	ctx context.Context,
	nonce uint64,
	gas uint64,
	req TxRequest,
) (*types.Transaction, error) {
	if s.fees.GasPrice != nil {
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       req.To,
			Gas:      gas,
			GasPrice: s.fees.GasPrice,
			Value:    req.Value,
			Data:     req.Data,
		}), nil
	}
	baseFee, err := s.client.LatestBaseFee(ctx)
	if err != nil {
		return nil, err
	}
	if baseFee == nil {
		gasPrice, err := s.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       req.To,
			Gas:      gas,
			GasPrice: gasPrice,
			Value:    req.Value,
			Data:     req.Data,
		}), nil
	}
	gasTipCap, err := s.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}
	gasFeeCap := new(big.Int).Mul(baseFee, big.NewInt(baseFeeFactor))
	gasFeeCap.Add(gasFeeCap, gasTipCap)
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		To:        req.To,
		Gas:       gas,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Value:     req.Value,
		Data:      req.Data,
	}), nil
}

// NodeSender relies on an account unlocked on the node (eth_sendTransaction).
// The node allocates the nonces.
type NodeSender struct {
	client Client
	from   common.Address
	fees   FeeConfig
}

func NewNodeSender(client Client, from common.Address, fees FeeConfig) *NodeSender {
	return &NodeSender{
		client: client,
		from:   from,
		fees:   fees,
	}
}

func (s *NodeSender) Address() common.Address {
	return s.from
}

func (s *NodeSender) Send(ctx context.Context, req TxRequest) (common.Hash, error) {
	args := map[string]interface{}{
		"from": s.from,
		"data": hexutil.Bytes(req.Data),
	}
	if req.To != nil {
		args["to"] = *req.To
	}
	if req.Value != nil {
		args["value"] = (*hexutil.Big)(req.Value)
	}
	if s.fees.Gas != 0 {
		args["gas"] = hexutil.Uint64(s.fees.Gas)
	}
	if s.fees.GasPrice != nil {
		args["gasPrice"] = (*hexutil.Big)(s.fees.GasPrice)
	}
	var txHash common.Hash
	if err := s.client.RPC.CallContext(ctx, &txHash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, TransactionError(nil, err, "failure sending tx from node account %s", s.from.Hex())
	}
	return txHash, nil
}

// gasLimit returns the configured gas, or a bumped up estimation
func gasLimit(
	ctx context.Context,
	client Client,
	from common.Address,
	fees FeeConfig,
	req TxRequest,
) (uint64, error) {
	if fees.Gas != 0 {
		return fees.Gas, nil
	}
	estimated, err := client.EstimateGasLimit(ctx, ethereum.CallMsg{
		From:  from,
		To:    req.To,
		Value: req.Value,
		Data:  req.Data,
	})
	if err != nil {
		return 0, err
	}
	return estimated * gasLimitNumerator / gasLimitDenominator, nil
}
