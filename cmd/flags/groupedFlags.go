// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GroupedFlags is a named set of flags printed in its own help section
type GroupedFlags struct {
	Name     string
	ShowFlag string
	FlagSet  *pflag.FlagSet
	// when false, the group flags are hidden until ShowFlag is given
	IsAlwaysVisible bool
}

// WithGroupedHelp returns a help function that prints [groups] after the
// command usage
func WithGroupedHelp(groups []GroupedFlags, args []string) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, _ []string) {
		if err := cmd.Root().UsageFunc()(cmd); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error showing command usage: %v\n", err)
		}
		out := cmd.OutOrStdout()
		for _, group := range groups {
			if !group.IsAlwaysVisible && !slices.Contains(args, group.ShowFlag) {
				fmt.Fprintf(out, "\n%s:\n  (hidden) Use %s to show these options\n", group.Name, group.ShowFlag)
				continue
			}
			fmt.Fprintf(out, "\n%s:\n", group.Name)
			group.FlagSet.VisitAll(func(flag *pflag.Flag) {
				fmt.Fprintf(out, "  --%s", flag.Name)
				if flag.Value.Type() != "bool" {
					fmt.Fprintf(out, " %s", flag.Value.Type())
				}
				fmt.Fprintf(out, "\t%s\n", flag.Usage)
			})
		}
	}
}

// RegisterFlagGroup adds the flags defined by [defineFlags] to [cmd], hidden
// from the default usage, and returns them as a group
func RegisterFlagGroup(
	cmd *cobra.Command,
	groupName string,
	showFlag string,
	isAlwaysVisible bool,
	defineFlags func(set *pflag.FlagSet),
) GroupedFlags {
	show := false
	cmd.Flags().BoolVar(&show, showFlag, false, fmt.Sprintf("Show %s", groupName))
	cmd.Flags().Lookup(showFlag).Hidden = true

	flagSet := pflag.NewFlagSet(groupName, pflag.ContinueOnError)
	defineFlags(flagSet)
	cmd.Flags().AddFlagSet(flagSet)
	flagSet.VisitAll(func(f *pflag.Flag) {
		cmd.Flags().Lookup(f.Name).Hidden = true
	})

	return GroupedFlags{
		Name:            groupName,
		ShowFlag:        "--" + showFlag,
		FlagSet:         flagSet,
		IsAlwaysVisible: isAlwaysVisible,
	}
}
