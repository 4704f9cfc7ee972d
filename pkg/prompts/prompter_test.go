// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestNewPrompter(t *testing.T) {
	prompter := NewPrompter()
	require.NotNil(t, prompter)
	_, ok := prompter.(*realPrompter)
	require.True(t, ok)
}

func TestCaptureNoYesWithMonkeyPatch(t *testing.T) {
	// Save original function
	originalRunner := promptUISelectRunner
	defer func() {
		promptUISelectRunner = originalRunner
	}()

	tests := []struct {
		name           string
		mockDecision   string
		mockError      error
		expectedResult bool
		errorContains  string
	}{
		{
			name:           "select Yes",
			mockDecision:   Yes,
			expectedResult: true,
		},
		{
			name:           "select No",
			mockDecision:   No,
			expectedResult: false,
		},
		{
			name:          "prompt error - user cancelled",
			mockError:     fmt.Errorf("user cancelled"),
			errorContains: "user cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promptUISelectRunner = func(prompt promptui.Select) (int, string, error) {
				require.Equal(t, "Deploy to ropsten?", prompt.Label)
				require.Equal(t, []string{No, Yes}, prompt.Items)
				return 0, tt.mockDecision, tt.mockError
			}

			result, err := (&realPrompter{}).CaptureNoYes("Deploy to ropsten?")
			if tt.errorContains != "" {
				require.ErrorContains(t, err, tt.errorContains)
				require.False(t, result)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedResult, result)
		})
	}
}

func TestCaptureMnemonicWithMonkeyPatch(t *testing.T) {
	originalRunner := promptUIRunner
	defer func() {
		promptUIRunner = originalRunner
	}()

	promptUIRunner = func(prompt promptui.Prompt) (string, error) {
		require.Equal(t, '*', prompt.Mask)
		require.ErrorContains(t, prompt.Validate("okey dokey"), "invalid mnemonic")
		require.NoError(t, prompt.Validate(testMnemonic))
		return "  test test test test test test\ttest test test test test   junk ", nil
	}
	mnemonic, err := (&realPrompter{}).CaptureMnemonic("Enter the mnemonic")
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)
}
