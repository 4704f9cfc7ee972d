// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/accounts/abi"
)

var (
	ErrUnknownMethod     = errors.New("method not found in contract abi")
	ErrTupleNotSupported = errors.New("tuple types are not supported in method signatures")
)

// Method is a contract method, either taken from an artifact abi or
// parsed from a signature in the form name(types)->(types)
type Method struct {
	Name string
	ABI  abi.ABI
}

func removeSurroundingParenthesis(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) > 0 {
		if string(s[0]) != "(" || string(s[len(s)-1]) != ")" {
			return "", fmt.Errorf("expected esp %q to be surrounded by parenthesis", s)
		}
		s = s[1 : len(s)-1]
	}
	return s, nil
}

func getWords(s string) []string {
	words := []string{}
	word := ""
	insideParenthesis := false
	for _, rune := range s {
		c := string(rune)
		if insideParenthesis {
			if c == ")" {
				words = append(words, "("+word+")")
				word = ""
				insideParenthesis = false
			} else {
				word += c
			}
			continue
		}
		if c == " " || c == "," || c == "(" {
			if word != "" {
				words = append(words, word)
				word = ""
			}
		}
		if c == " " || c == "," {
			continue
		}
		if c == "(" {
			insideParenthesis = true
			continue
		}
		word += c
	}
	if word != "" {
		words = append(words, word)
	}
	return words
}

func getArguments(types []string) ([]map[string]interface{}, error) {
	r := []map[string]interface{}{}
	for _, t := range types {
		if strings.HasPrefix(t, "(") {
			return nil, fmt.Errorf("%w: %s", ErrTupleNotSupported, t)
		}
		r = append(r, map[string]interface{}{
			"internaltype": t,
			"type":         t,
			"name":         "",
		})
	}
	return r, nil
}

// ParseMethodEsp converts [methodEsp] into the method name and its json abi
func ParseMethodEsp(
	methodEsp string,
	paid bool,
	view bool,
) (string, string, error) {
	index := strings.Index(methodEsp, "(")
	if index == -1 {
		return methodEsp, "", nil
	}
	methodName := strings.TrimSpace(methodEsp[:index])
	methodTypes := methodEsp[index:]
	methodInputs := ""
	methodOutputs := ""
	index = strings.Index(methodTypes, "->")
	if index == -1 {
		methodInputs = methodTypes
	} else {
		methodInputs = methodTypes[:index]
		methodOutputs = methodTypes[index+2:]
	}
	var err error
	methodInputs, err = removeSurroundingParenthesis(methodInputs)
	if err != nil {
		return "", "", err
	}
	methodOutputs, err = removeSurroundingParenthesis(methodOutputs)
	if err != nil {
		return "", "", err
	}
	inputs, err := getArguments(getWords(methodInputs))
	if err != nil {
		return "", "", err
	}
	outputs, err := getArguments(getWords(methodOutputs))
	if err != nil {
		return "", "", err
	}
	abiMap := []map[string]interface{}{
		{
			"inputs":          inputs,
			"outputs":         outputs,
			"name":            methodName,
			"statemutability": "nonpayable",
			"type":            "function",
		},
	}
	if paid {
		abiMap[0]["statemutability"] = "payable"
	}
	if view {
		abiMap[0]["statemutability"] = "view"
	}
	abiBytes, err := json.MarshalIndent(abiMap, "", "  ")
	if err != nil {
		return "", "", err
	}
	return methodName, string(abiBytes), nil
}

// ParseMethod builds a [Method] out of a full signature like
// setContract(uint8,address) or getContract(uint8)->(address)
func ParseMethod(methodEsp string, view bool) (Method, error) {
	methodName, methodABI, err := ParseMethodEsp(methodEsp, false, view)
	if err != nil {
		return Method{}, err
	}
	if methodABI == "" {
		return Method{}, fmt.Errorf("method %q needs a signature with its types, like %s(address)", methodEsp, methodEsp)
	}
	parsed, err := abi.JSON(strings.NewReader(methodABI))
	if err != nil {
		return Method{}, fmt.Errorf("invalid method signature %q: %w", methodEsp, err)
	}
	return Method{Name: methodName, ABI: parsed}, nil
}

// ResolveMethod looks [nameOrEsp] up in [contractABI] when it is a bare name,
// and parses it otherwise
func ResolveMethod(contractABI abi.ABI, nameOrEsp string, view bool) (Method, error) {
	if strings.Contains(nameOrEsp, "(") {
		return ParseMethod(nameOrEsp, view)
	}
	if _, ok := contractABI.Methods[nameOrEsp]; !ok {
		return Method{}, fmt.Errorf("%w: %s", ErrUnknownMethod, nameOrEsp)
	}
	return Method{Name: nameOrEsp, ABI: contractABI}, nil
}

func (m Method) Inputs() abi.Arguments {
	return m.ABI.Methods[m.Name].Inputs
}

func (m Method) Outputs() abi.Arguments {
	return m.ABI.Methods[m.Name].Outputs
}

// Esp returns the method signature, in the form accepted by [ParseMethod]
func (m Method) Esp() string {
	esp := m.Name + "(" + argumentTypes(m.Inputs()) + ")"
	if outputs := m.Outputs(); len(outputs) > 0 {
		esp += "->(" + argumentTypes(outputs) + ")"
	}
	return esp
}

func argumentTypes(args abi.Arguments) string {
	types := make([]string, 0, len(args))
	for _, arg := range args {
		types = append(types, arg.Type.String())
	}
	return strings.Join(types, ",")
}
