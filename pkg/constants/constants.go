// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName    = ".okeydokey"
	LogDir         = "logs"
	DeploymentsDir = "deployments"
	CLILogName     = "okeydokey"

	DeploymentSuffix = ".yaml"

	// user preferences, persisted by viper under the base dir
	UserConfigFileName      = "config.json"
	ConfigMetricsEnabledKey = "metrics-enabled"
	Enable                  = "enable"
	Disable                 = "disable"

	// project configuration with the networks table
	DefaultProjectConfigName = "okeydokey"
	EnvPrefix                = "OKEYDOKEY"
	NetworksKey              = "networks"
	MnemonicEnvVar           = "OKEYDOKEY_MNEMONIC"
	PrivateKeyEnvVar         = "OKEYDOKEY_PRIVATE_KEY"

	DefaultNetwork      = "development"
	DefaultArtifactsDir = "build/contracts"
	DefaultConcurrency  = 4
	AnyNetworkID        = "*"

	APIRequestLargeTimeout = 30 * time.Second
	TxReceiptTimeout       = 5 * time.Minute
	TxReceiptPollInterval  = 1 * time.Second

	// logging
	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files
)
