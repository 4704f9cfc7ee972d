// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifact loads compiled contracts from a build directory.
//
// Two layouts are understood, looked up in this order:
//   - truffle/hardhat style json: <dir>/<Name>.json with contractName, abi and bytecode
//   - solc style pair: <dir>/<Name>.abi and <dir>/<Name>.bin
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/spf13/afero"
)

var (
	ErrNotFound        = errors.New("artifact not found")
	ErrNoBytecode      = errors.New("artifact has no bytecode, is it an interface or abstract contract?")
	ErrUnlinkedLibrary = errors.New("artifact bytecode has unlinked library references")
)

type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
	Path     string
}

type truffleArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Loader reads artifacts from [Dir] on [Fs]
type Loader struct {
	Fs  afero.Fs
	Dir string
}

func NewLoader(fs afero.Fs, dir string) Loader {
	return Loader{Fs: fs, Dir: dir}
}

// Load reads the artifact for contract [name]
func (l Loader) Load(name string) (*Artifact, error) {
	jsonPath := filepath.Join(l.Dir, name+".json")
	if exists, err := afero.Exists(l.Fs, jsonPath); err != nil {
		return nil, err
	} else if exists {
		return l.loadJSON(name, jsonPath)
	}
	abiPath := filepath.Join(l.Dir, name+".abi")
	binPath := filepath.Join(l.Dir, name+".bin")
	abiExists, err := afero.Exists(l.Fs, abiPath)
	if err != nil {
		return nil, err
	}
	binExists, err := afero.Exists(l.Fs, binPath)
	if err != nil {
		return nil, err
	}
	if !abiExists || !binExists {
		return nil, fmt.Errorf("%w: %s (looked for %s, or %s and %s)", ErrNotFound, name, jsonPath, abiPath, binPath)
	}
	return l.loadPair(name, abiPath, binPath)
}

// LoadAll reads the artifacts for every contract in [names]
func (l Loader) LoadAll(names []string) (map[string]*Artifact, error) {
	artifacts := make(map[string]*Artifact, len(names))
	var errs []error
	for _, name := range names {
		a, err := l.Load(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		artifacts[name] = a
	}
	return artifacts, errors.Join(errs...)
}

func (l Loader) loadJSON(name string, path string) (*Artifact, error) {
	bs, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return nil, err
	}
	var ta truffleArtifact
	if err := json.Unmarshal(bs, &ta); err != nil {
		return nil, fmt.Errorf("failure parsing artifact %s: %w", path, err)
	}
	if ta.ContractName != "" && ta.ContractName != name {
		return nil, fmt.Errorf("artifact %s declares contract %q, expected %q", path, ta.ContractName, name)
	}
	return newArtifact(name, path, ta.ABI, ta.Bytecode)
}

func (l Loader) loadPair(name string, abiPath string, binPath string) (*Artifact, error) {
	abiBytes, err := afero.ReadFile(l.Fs, abiPath)
	if err != nil {
		return nil, err
	}
	binBytes, err := afero.ReadFile(l.Fs, binPath)
	if err != nil {
		return nil, err
	}
	return newArtifact(name, binPath, abiBytes, string(binBytes))
}

func newArtifact(name string, path string, abiBytes []byte, bytecode string) (*Artifact, error) {
	if len(bytes.TrimSpace(abiBytes)) == 0 {
		abiBytes = []byte("[]")
	}
	contractABI, err := abi.JSON(bytes.NewReader(abiBytes))
	if err != nil {
		return nil, fmt.Errorf("failure parsing abi of %s: %w", path, err)
	}
	bytecode = strings.TrimSpace(bytecode)
	if strings.Contains(bytecode, "__") {
		return nil, fmt.Errorf("%w: %s", ErrUnlinkedLibrary, path)
	}
	code := common.FromHex(bytecode)
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBytecode, path)
	}
	return &Artifact{
		Name:     name,
		ABI:      contractABI,
		Bytecode: code,
		Path:     path,
	}, nil
}
