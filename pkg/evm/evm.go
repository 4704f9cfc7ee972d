// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/ethclient"
	"github.com/ava-labs/libevm/rpc"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/utils"
)

const repeatsOnFailure = 3

var (
	sleepBetweenRepeats = 1 * time.Second
	receiptPollInterval = constants.TxReceiptPollInterval
	receiptTimeout      = constants.TxReceiptTimeout
)

// EthClient is the subset of ethclient.Client used by the CLI
//
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=mocks/eth_client.go . EthClient,RPCCaller
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	NetworkID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// RPCCaller issues raw json-rpc requests, for the methods ethclient doesn't wrap
// (eth_accounts, eth_sendTransaction)
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// used to mock the connection function
var dialContext = func(ctx context.Context, rpcURL string) (EthClient, RPCCaller, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return ethclient.NewClient(rpcClient), rpcClient, nil
}

// wraps over ethclient for calls used by the CLI. features:
// - repeats to try to recover from failures, generating its own context for each call
// - logs rpc url in case of failure
type Client struct {
	EthClient EthClient
	RPC       RPCCaller
	URL       string
}

// indicates if the given rpc url has schema or not
func HasScheme(rpcURL string) (bool, error) {
	if parsedURL, err := url.Parse(rpcURL); err != nil {
		if !strings.Contains(err.Error(), "first path segment in URL cannot contain colon") {
			return false, err
		}
		return false, nil
	} else {
		return strings.Contains(rpcURL, "://") && parsedURL.Scheme != "", nil
	}
}

// connects an evm client to the given [rpcURL], assuming http if it has no scheme
// supports [repeatsOnFailure] failures
func GetClient(ctx context.Context, rpcURL string) (Client, error) {
	client := Client{
		URL: rpcURL,
	}
	hasScheme, err := HasScheme(rpcURL)
	if err != nil {
		return client, fmt.Errorf("failure determining the scheme of url %s: %w", rpcURL, err)
	}
	dialURL := rpcURL
	if !hasScheme {
		dialURL = "http://" + rpcURL
	}
	type conn struct {
		eth EthClient
		rpc RPCCaller
	}
	c, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (conn, error) {
			eth, raw, err := dialContext(ctx, dialURL)
			return conn{eth: eth, rpc: raw}, err
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return client, fmt.Errorf("failure connecting to %s: %w", rpcURL, err)
	}
	client.EthClient = c.eth
	client.RPC = c.rpc
	return client, nil
}

func largeContextFrom(ctx context.Context) func() (context.Context, context.CancelFunc) {
	return func() (context.Context, context.CancelFunc) {
		return utils.GetAPILargeContextFrom(ctx)
	}
}

// closes underlying ethclient connection
func (client Client) Close() {
	client.EthClient.Close()
}

// returns the chain ID
// supports [repeatsOnFailure] failures
func (client Client) GetChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.ChainID(ctx)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure getting chain id from %s: %w", client.URL, err)
	}
	return chainID, err
}

// returns the network ID (net_version)
// supports [repeatsOnFailure] failures
func (client Client) GetNetworkID(ctx context.Context) (*big.Int, error) {
	networkID, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.NetworkID(ctx)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure getting network id from %s: %w", client.URL, err)
	}
	return networkID, err
}

// returns the accounts managed by the node
// supports [repeatsOnFailure] failures
func (client Client) GetAccounts(ctx context.Context) ([]common.Address, error) {
	accounts, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) ([]common.Address, error) {
			var accounts []common.Address
			err := client.RPC.CallContext(ctx, &accounts, "eth_accounts")
			return accounts, err
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure getting accounts from %s: %w", client.URL, err)
	}
	return accounts, err
}

// returns the balance for [address]
// supports [repeatsOnFailure] failures
func (client Client) GetAddressBalance(
	ctx context.Context,
	address common.Address,
) (*big.Int, error) {
	balance, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.BalanceAt(ctx, address, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure obtaining balance for %s on %s: %w", address.Hex(), client.URL, err)
	}
	return balance, err
}

// returns the contract bytecode at [contractAddress]
// supports [repeatsOnFailure] failures
func (client Client) GetContractBytecode(
	ctx context.Context,
	contractAddress common.Address,
) ([]byte, error) {
	code, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) ([]byte, error) {
			return client.EthClient.CodeAt(ctx, contractAddress, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf(
			"failure obtaining code from %s at address %s: %w",
			client.URL,
			contractAddress.Hex(),
			err,
		)
	}
	return code, err
}

// indicates wether a contract is deployed on [contractAddress]
// supports [repeatsOnFailure] failures
func (client Client) ContractAlreadyDeployed(
	ctx context.Context,
	contractAddress common.Address,
) (bool, error) {
	if bs, err := client.GetContractBytecode(ctx, contractAddress); err != nil {
		return false, err
	} else {
		return len(bs) != 0, nil
	}
}

// returns the pending nonce at [address]
// supports [repeatsOnFailure] failures
func (client Client) PendingNonceAt(
	ctx context.Context,
	address common.Address,
) (uint64, error) {
	nonce, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (uint64, error) {
			return client.EthClient.PendingNonceAt(ctx, address)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure obtaining nonce for %s on %s: %w", address.Hex(), client.URL, err)
	}
	return nonce, err
}

// returns the base fee of the latest block, nil for pre-london chains
// supports [repeatsOnFailure] failures
func (client Client) LatestBaseFee(ctx context.Context) (*big.Int, error) {
	header, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*types.Header, error) {
			return client.EthClient.HeaderByNumber(ctx, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure obtaining latest header on %s: %w", client.URL, err)
	}
	return header.BaseFee, nil
}

// returns the suggested legacy gas price
// supports [repeatsOnFailure] failures
func (client Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	gasPrice, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.SuggestGasPrice(ctx)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure obtaining gas price on %s: %w", client.URL, err)
	}
	return gasPrice, err
}

// returns the suggested gas tip
// supports [repeatsOnFailure] failures
func (client Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	gasTipCap, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (*big.Int, error) {
			return client.EthClient.SuggestGasTipCap(ctx)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure obtaining gas tip cap on %s: %w", client.URL, err)
	}
	return gasTipCap, err
}

// returns the estimated gas limit. Not retried: an estimation error usually
// means the execution reverts
func (client Client) EstimateGasLimit(
	ctx context.Context,
	msg ethereum.CallMsg,
) (uint64, error) {
	ctx, cancel := utils.GetAPILargeContextFrom(ctx)
	defer cancel()
	gasLimit, err := client.EthClient.EstimateGas(ctx, msg)
	if err != nil {
		err = fmt.Errorf("failure estimating gas limit on %s: %w", client.URL, err)
	}
	return gasLimit, err
}

// executes a read only call
// supports [repeatsOnFailure] failures
func (client Client) CallContract(
	ctx context.Context,
	msg ethereum.CallMsg,
) ([]byte, error) {
	out, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) ([]byte, error) {
			return client.EthClient.CallContract(ctx, msg, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		to := "<nil>"
		if msg.To != nil {
			to = msg.To.Hex()
		}
		err = fmt.Errorf("failure calling contract %s on %s: %w", to, client.URL, err)
	}
	return out, err
}

// sends [tx]
// supports [repeatsOnFailure] failures. A resend of an already accepted tx is
// considered a success
func (client Client) SendTransaction(
	ctx context.Context,
	tx *types.Transaction,
) error {
	_, err := utils.RetryWithContextGen(
		largeContextFrom(ctx),
		func(ctx context.Context) (any, error) {
			err := client.EthClient.SendTransaction(ctx, tx)
			if err != nil && strings.Contains(err.Error(), "already known") {
				return nil, nil
			}
			return nil, err
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		err = fmt.Errorf("failure sending transaction %s to %s: %w", tx.Hash(), client.URL, err)
	}
	return err
}

// waits for the receipt of [txHash], polling the node until it shows up
// tolerates [repeatsOnFailure] consecutive failures, gives up after [receiptTimeout]
func (client Client) WaitForReceipt(
	ctx context.Context,
	txHash common.Hash,
) (*types.Receipt, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("failure waiting for tx %s on %s: %w", txHash, client.URL, err)
		}
		callCtx, callCancel := utils.GetAPILargeContextFrom(ctx)
		receipt, err := client.EthClient.TransactionReceipt(callCtx, txHash)
		callCancel()
		switch {
		case err == nil && receipt != nil:
			return receipt, receipt.Status == types.ReceiptStatusSuccessful, nil
		case err == nil, errors.Is(err, ethereum.NotFound):
			failures = 0
		default:
			failures++
			if failures >= repeatsOnFailure {
				return nil, false, fmt.Errorf("failure waiting for tx %s on %s: %w", txHash, client.URL, err)
			}
		}
		select {
		case <-ctx.Done():
			return nil, false, fmt.Errorf("failure waiting for tx %s on %s: %w", txHash, client.URL, ctx.Err())
		case <-time.After(receiptPollInterval):
		}
	}
}
