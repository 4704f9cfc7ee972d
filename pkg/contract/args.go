// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ConvertArgs converts plain values, as read from yaml or the command line,
// into the go types the abi encoder expects for [args]
func ConvertArgs(args abi.Arguments, values []any) ([]any, error) {
	if len(args) != len(values) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(args), len(values))
	}
	converted := make([]any, 0, len(values))
	for i, arg := range args {
		v, err := convertValue(arg.Type, values[i])
		if err != nil {
			name := arg.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, arg.Type.String(), err)
		}
		converted = append(converted, v)
	}
	return converted, nil
}

func convertValue(t abi.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("missing value")
	}
	if reflect.TypeOf(v) == t.GetType() {
		return v, nil
	}
	switch t.T {
	case abi.AddressTy:
		s, ok := v.(string)
		if !ok || !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %v", v)
		}
		return common.HexToAddress(s), nil
	case abi.BoolTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid bool %v", v)
		}
		return strconv.ParseBool(s)
	case abi.StringTy:
		return fmt.Sprint(v), nil
	case abi.IntTy, abi.UintTy:
		return convertInteger(t, v)
	case abi.BytesTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid bytes %v", v)
		}
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("invalid bytes%d %v", t.Size, v)
		}
		bs, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(bs) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(bs))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(bs))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, v)
	default:
		return nil, fmt.Errorf("unsupported abi type %s", t.String())
	}
}

func convertList(t abi.Type, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %v", v)
	}
	var out reflect.Value
	if t.T == abi.ArrayTy {
		if rv.Len() != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, rv.Len())
		}
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), rv.Len(), rv.Len())
	}
	for i := 0; i < rv.Len(); i++ {
		elem, err := convertValue(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}
	return out.Interface(), nil
}

func convertInteger(t abi.Type, v any) (any, error) {
	n, err := toBigInt(v)
	if err != nil {
		return nil, err
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%s out of range for uint%d", n, t.Size)
		}
	} else {
		abs := n
		if n.Sign() < 0 {
			abs = new(big.Int).Add(n, big.NewInt(1))
		}
		if abs.BitLen() > t.Size-1 {
			return nil, fmt.Errorf("%s out of range for int%d", n, t.Size)
		}
	}
	goType := t.GetType()
	if goType == bigIntType {
		return n, nil
	}
	if t.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case string:
		i, ok := new(big.Int).SetString(strings.ReplaceAll(n, "_", ""), 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", n)
		}
		return i, nil
	case float64:
		if math.IsInf(n, 0) || n != math.Trunc(n) {
			return nil, fmt.Errorf("invalid integer %v", n)
		}
		i, _ := big.NewFloat(n).Int(nil)
		return i, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	return nil, fmt.Errorf("invalid integer %v", v)
}
