// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package plan

import (
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)
	require.Equal(t, []string{"OkeyDokeyGod", "OkeyDokey", "Houses", "Devices", "Reservations", "Reviews"}, p.Names())
	require.Len(t, p.Links, 5)
	for i, l := range p.Links {
		require.Equal(t, "OkeyDokeyGod", l.Registry)
		require.False(t, l.IsRequired())
		require.NotNil(t, l.Slot)
		require.Equal(t, int64(i), *l.Slot)
	}
	waves, err := p.Waves()
	require.NoError(t, err)
	require.Len(t, waves, 1)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "plan.yaml", []byte(`
artifacts:
  - name: A
  - name: B
    args: ["$A", 3, ["$A", "0x01"]]
links:
  - registry: B
    setter: setA
    getter: a
    target: A
`), 0o644))
	p, err := Load(fs, "plan.yaml")
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, p.Artifacts[1].References())
	require.True(t, p.Links[0].IsRequired())
	require.Nil(t, p.Links[0].GetterArgs())
	require.Equal(t, "B.setA -> A", p.Links[0].String())

	_, err = Load(fs, "missing.yaml")
	require.ErrorContains(t, err, "failure reading plan missing.yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		plan string
		err  error
		msg  string
	}{
		{
			name: "empty",
			plan: `artifacts: []`,
			err:  ErrEmptyPlan,
		},
		{
			name: "duplicate",
			plan: `{artifacts: [{name: A}, {name: A}]}`,
			err:  ErrDuplicateArtifact,
		},
		{
			name: "unknown reference",
			plan: `{artifacts: [{name: A, args: ["$C"]}]}`,
			err:  ErrUnknownArtifact,
		},
		{
			name: "self reference",
			plan: `{artifacts: [{name: A, args: ["$A"]}]}`,
			err:  ErrCyclicReferences,
		},
		{
			name: "cycle",
			plan: `{artifacts: [{name: A, args: ["$B"]}, {name: B, args: ["$A"]}]}`,
			err:  ErrCyclicReferences,
			msg:  "among A, B",
		},
		{
			name: "unknown registry",
			plan: `{artifacts: [{name: A}], links: [{registry: R, setter: s, getter: g, target: A}]}`,
			err:  ErrUnknownArtifact,
			msg:  "link #0",
		},
		{
			name: "missing getter",
			plan: `{artifacts: [{name: A}], links: [{registry: A, setter: s, target: A}]}`,
			msg:  "both setter and getter are needed",
		},
		{
			name: "malformed",
			plan: `artifacts: {name: A}`,
			msg:  "cannot unmarshal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.plan))
			require.Error(t, err)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			}
			if tt.msg != "" {
				require.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestWaves(t *testing.T) {
	p, err := Parse([]byte(`
artifacts:
  - name: C
    args: ["$B"]
  - name: A
  - name: B
    args: ["$A"]
  - name: D
`))
	require.NoError(t, err)
	waves, err := p.Waves()
	require.NoError(t, err)
	names := [][]string{}
	for _, wave := range waves {
		waveNames := []string{}
		for _, a := range wave {
			waveNames = append(waveNames, a.Name)
		}
		names = append(names, waveNames)
	}
	require.Equal(t, [][]string{{"A", "D"}, {"B"}, {"C"}}, names)
}

func TestResolveArgs(t *testing.T) {
	a := ArtifactSpec{Name: "B", Args: []any{"$A", 3, []any{"$A", "plain"}, "$"}}
	addr := common.HexToAddress("0x5DB9A7629912EBF95876228C24A848de0bfB43A9")

	args, err := a.ResolveArgs(map[string]common.Address{"A": addr})
	require.NoError(t, err)
	require.Equal(t, []any{addr, 3, []any{addr, "plain"}, "$"}, args)

	_, err = a.ResolveArgs(map[string]common.Address{})
	require.ErrorIs(t, err, ErrUnresolvedReference)
}

func TestLinkArgs(t *testing.T) {
	slot := int64(2)
	target := common.HexToAddress("0x01")
	l := LinkCall{Registry: "R", Setter: "set", Getter: "get", Slot: &slot, Target: "T"}
	require.Equal(t, []any{int64(2), target}, l.SetterArgs(target))
	require.Equal(t, []any{int64(2)}, l.GetterArgs())
	require.Equal(t, "R[2] -> T", l.String())
	l.Slot = nil
	require.Equal(t, []any{target}, l.SetterArgs(target))
}
