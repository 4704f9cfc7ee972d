// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/okeydokey/okeydokey-cli/pkg/ux"

	"github.com/spf13/cobra"
)

// used to mock process termination
var osExit = os.Exit

type UsageError struct {
	cmd *cobra.Command
	err error
}

func (e UsageError) Error() string {
	return fmt.Sprintf("Usage error: %s", e.err)
}

func (e UsageError) Unwrap() error {
	return e.err
}

func NewUsageError(cmd *cobra.Command, err error) UsageError {
	return UsageError{
		cmd: cmd,
		err: err,
	}
}

func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

// HandleErrors reports [err] and exits with a non zero code. Joined errors,
// as returned for a run with several failed steps, are listed one per line.
func HandleErrors(err error) {
	if err == nil {
		return
	}
	var usageErr UsageError
	if errors.As(err, &usageErr) {
		usageErr.cmd.Println(usageErr.cmd.UsageString())
		usageErr.cmd.Println()
		usageErr.cmd.Println(usageErr)
		osExit(1)
		return
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) && len(joined.Unwrap()) > 1 {
		prefix := ""
		if joinedErr, ok := joined.(error); ok {
			prefix = strings.TrimSuffix(err.Error(), joinedErr.Error())
		}
		ux.Logger.PrintToUser("Error: %s%d failures", prefix, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			ux.Logger.RedXToUser("%s", e)
		}
	} else {
		ux.Logger.PrintToUser("Error: %s", err)
	}
	osExit(1)
}

func CommandSuiteUsage(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return NewUsageError(
			cmd,
			fmt.Errorf("invalid subcommand %q", strings.Join(args, " ")),
		)
	}
	err := cmd.Help()
	if err != nil {
		fmt.Println(err)
	}
	return nil
}

func ConfigureRootCmd(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewUsageError(cmd, err)
	})
}
