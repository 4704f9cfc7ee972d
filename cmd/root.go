// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/okeydokey/okeydokey-cli/cmd/configcmd"
	"github.com/okeydokey/okeydokey-cli/cmd/deploymentcmd"
	"github.com/okeydokey/okeydokey-cli/cmd/migratecmd"
	"github.com/okeydokey/okeydokey-cli/cmd/networkcmd"
	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/cobrautils"
	"github.com/okeydokey/okeydokey-cli/pkg/config"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/metrics"
	"github.com/okeydokey/okeydokey-cli/pkg/prompts"
	"github.com/okeydokey/okeydokey-cli/pkg/ux"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	app *application.OkeyDokey

	logLevel   string
	baseDir    string
	configFile string

	Version = ""
)

// NewRootCmd represents the base command when called without any subcommands
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "okeydokey",
		Long: `OkeyDokey CLI deploys the OkeyDokey contracts to an EVM network, wires
their addresses into the registry contract and checks the wiring by reading
it back.

To get started, compile the contracts into build/contracts and run
okeydokey migrate --network development.`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "project config file with the networks table (default is ./okeydokey.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "log level for the application")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "directory for logs, preferences and deployment records (default is ~/"+constants.BaseDirName+")")

	// add sub commands
	rootCmd.AddCommand(migratecmd.NewCmd(app))
	rootCmd.AddCommand(networkcmd.NewCmd(app))
	rootCmd.AddCommand(deploymentcmd.NewCmd(app))
	rootCmd.AddCommand(configcmd.NewCmd(app))

	cobrautils.ConfigureRootCmd(rootCmd)
	return rootCmd
}

func createApp(*cobra.Command, []string) error {
	if baseDir == "" {
		usr, err := user.Current()
		if err != nil {
			return fmt.Errorf("unable to get system user: %w", err)
		}
		baseDir = filepath.Join(usr.HomeDir, constants.BaseDirName)
	}
	if err := os.MkdirAll(baseDir, constants.DefaultPerms755); err != nil {
		return fmt.Errorf("failed creating the basedir %s: %w", baseDir, err)
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	cf := config.New()
	cf.SetConfig(log, filepath.Join(baseDir, constants.UserConfigFileName))
	if err := cf.LoadProjectConfig(log, configFile); err != nil {
		return fmt.Errorf("failed reading project config: %w", err)
	}
	app.Setup(baseDir, log, cf, prompts.NewPrompter(), afero.NewOsFs())
	return nil
}

func setupLogging(baseDir string) (logging.Logger, error) {
	var err error

	logConfig := logging.Config{}
	logConfig.LogLevel = logging.Info
	logConfig.DisplayLevel, err = logging.ToLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level configured: %s", logLevel)
	}
	logConfig.Directory = filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logConfig.Directory, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	logConfig.LogFormat = logging.Colors
	logConfig.MaxSize = constants.MaxLogFileSize
	logConfig.MaxFiles = constants.MaxNumOfLogFiles
	logConfig.MaxAge = constants.RetainOldFiles

	factory := logging.NewFactory(logConfig)
	log, err := factory.Make(constants.CLILogName)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// create the user facing logger as a global var
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	if Version != "" {
		metrics.Version = Version
	}
	rootCmd := NewRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cobrautils.HandleErrors(err)
}
