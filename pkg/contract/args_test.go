// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"math"
	"math/big"
	"testing"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func arguments(t *testing.T, types ...string) abi.Arguments {
	args := abi.Arguments{}
	for _, ty := range types {
		abiType, err := abi.NewType(ty, "", nil)
		require.NoError(t, err)
		args = append(args, abi.Argument{Type: abiType})
	}
	return args
}

func TestConvertArgs(t *testing.T) {
	addr := common.HexToAddress("0x929FFF0071a12d66b9d2A90f8c3A6699551E91e3")
	tests := []struct {
		name     string
		types    []string
		values   []any
		expected []any
		errMsg   string
	}{
		{
			name:     "address from string and native",
			types:    []string{"address", "address"},
			values:   []any{addr.Hex(), addr},
			expected: []any{addr, addr},
		},
		{
			name:     "small integers map to go ints",
			types:    []string{"uint8", "int64", "uint32"},
			values:   []any{3, "-7", uint(9)},
			expected: []any{uint8(3), int64(-7), uint32(9)},
		},
		{
			name:     "big integers",
			types:    []string{"uint256", "int24"},
			values:   []any{"0x10", 5},
			expected: []any{big.NewInt(16), big.NewInt(5)},
		},
		{
			name:     "bool string and bytes",
			types:    []string{"bool", "bool", "string", "bytes", "bytes2"},
			values:   []any{true, "false", "okey", "0x0102", "0xabcd"},
			expected: []any{true, false, "okey", []byte{1, 2}, [2]byte{0xab, 0xcd}},
		},
		{
			name:     "lists",
			types:    []string{"address[]", "uint8[2]"},
			values:   []any{[]any{addr.Hex()}, []any{1, 2}},
			expected: []any{[]common.Address{addr}, [2]uint8{1, 2}},
		},
		{
			name:   "arity mismatch",
			types:  []string{"address"},
			values: []any{},
			errMsg: "expected 1 arguments, got 0",
		},
		{
			name:   "invalid address",
			types:  []string{"address"},
			values: []any{"0x1234"},
			errMsg: "invalid address",
		},
		{
			name:   "uint overflow",
			types:  []string{"uint8"},
			values: []any{256},
			errMsg: "out of range for uint8",
		},
		{
			name:   "negative uint",
			types:  []string{"uint16"},
			values: []any{-1},
			errMsg: "out of range for uint16",
		},
		{
			name:   "int overflow",
			types:  []string{"int8"},
			values: []any{128},
			errMsg: "out of range for int8",
		},
		{
			name:   "wrong fixed bytes size",
			types:  []string{"bytes4"},
			values: []any{"0x01"},
			errMsg: "expected 4 bytes, got 1",
		},
		{
			name:   "infinite float",
			types:  []string{"uint256"},
			values: []any{math.Inf(1)},
			errMsg: "invalid integer +Inf",
		},
		{
			name:   "negative infinite float",
			types:  []string{"int256"},
			values: []any{math.Inf(-1)},
			errMsg: "invalid integer -Inf",
		},
		{
			name:   "not a number",
			types:  []string{"uint256"},
			values: []any{math.NaN()},
			errMsg: "invalid integer NaN",
		},
		{
			name:   "fractional float",
			types:  []string{"uint8"},
			values: []any{1.5},
			errMsg: "invalid integer 1.5",
		},
		{
			name:   "wrong array size",
			types:  []string{"uint8[2]"},
			values: []any{[]any{1}},
			errMsg: "expected 2 elements, got 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converted, err := ConvertArgs(arguments(t, tt.types...), tt.values)
			if tt.errMsg != "" {
				require.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, converted)
		})
	}
}

func TestConvertArgsMinInt(t *testing.T) {
	converted, err := ConvertArgs(arguments(t, "int8"), []any{-128})
	require.NoError(t, err)
	require.Equal(t, []any{int8(-128)}, converted)
	_, err = ConvertArgs(arguments(t, "int8"), []any{-129})
	require.Error(t, err)
}

func TestConvertArgsFromPlanValues(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{name: "integer", yaml: "[42]"},
		{name: "whole float", yaml: "[1e3]"},
		{name: "infinity", yaml: "[.inf]", errMsg: "invalid integer +Inf"},
		{name: "negative infinity", yaml: "[-.inf]", errMsg: "invalid integer -Inf"},
		{name: "not a number", yaml: "[.nan]", errMsg: "invalid integer NaN"},
		{name: "fraction", yaml: "[0.25]", errMsg: "invalid integer 0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var values []any
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &values))
			_, err := ConvertArgs(arguments(t, "uint256"), values)
			if tt.errMsg != "" {
				require.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}
