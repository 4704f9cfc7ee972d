// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package metrics

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os/user"
	"runtime"
	"strings"

	"github.com/okeydokey/okeydokey-cli/pkg/application"
	"github.com/okeydokey/okeydokey-cli/pkg/constants"
	"github.com/okeydokey/okeydokey-cli/pkg/utils"

	"github.com/posthog/posthog-go"
	"github.com/spf13/cobra"
)

// telemetryToken value is set at build time using ldflags
var (
	telemetryToken    = ""
	telemetryInstance = "https://app.posthog.com"
	// Version is set at build time using ldflags
	Version = "dev"
)

// used to mock event delivery
var enqueue = func(capture posthog.Capture) error {
	client, err := posthog.NewWithConfig(telemetryToken, posthog.Config{Endpoint: telemetryInstance})
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Enqueue(capture)
}

func userIsOptedIn(app *application.OkeyDokey) bool {
	return app.Conf.ConfigFileExists() && app.Conf.GetConfigBoolValue(constants.ConfigMetricsEnabledKey)
}

// HandleTracking sends a usage event for [cmd] if the user opted in
func HandleTracking(cmd *cobra.Command, app *application.OkeyDokey, flags map[string]string) {
	if !userIsOptedIn(app) {
		return
	}
	if !cmd.HasSubCommands() && CheckCommandIsNotCompletion(cmd) {
		TrackMetrics(cmd.CommandPath(), flags)
	}
}

func CheckCommandIsNotCompletion(cmd *cobra.Command) bool {
	result := strings.Fields(cmd.CommandPath())
	if len(result) >= 2 && result[1] == "completion" {
		return false
	}
	return true
}

func TrackMetrics(commandPath string, flags map[string]string) {
	if telemetryToken == "" || utils.IsE2E() {
		return
	}
	_ = enqueue(newCapture(commandPath, flags))
}

func newCapture(commandPath string, flags map[string]string) posthog.Capture {
	username, uid := "", ""
	if usr, err := user.Current(); err == nil {
		username, uid = usr.Username, usr.Uid
	}
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s%s", username, uid)))
	userID := base64.StdEncoding.EncodeToString(hash[:])
	telemetryProperties := make(map[string]interface{})
	telemetryProperties["command"] = commandPath
	telemetryProperties["version"] = Version
	telemetryProperties["os"] = runtime.GOOS
	for propertyKey, propertyValue := range flags {
		telemetryProperties[propertyKey] = propertyValue
	}
	return posthog.Capture{
		DistinctId: userID,
		Event:      "okeydokey-command",
		Properties: telemetryProperties,
	}
}

// MigrationFlags describes a migration run for tracking: network kind and
// outcome counters, never addresses or keys
func MigrationFlags(publicNetwork bool, deployed int, failed int, verified int) map[string]string {
	kind := "development"
	if publicNetwork {
		kind = "public"
	}
	return map[string]string{
		"network-kind": kind,
		"deployed":     fmt.Sprint(deployed),
		"failed":       fmt.Sprint(failed),
		"verified":     fmt.Sprint(verified),
	}
}
