// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import "github.com/manifoldco/promptui"

const (
	Yes = "Yes"
	No  = "No"
)

type Prompter interface {
	CaptureNoYes(promptStr string) (bool, error)
	CaptureMnemonic(promptStr string) (string, error)
}

type realPrompter struct{}

// Global variable that can be replaced during testing
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// Global variable for Select operations that can be replaced during testing
var promptUISelectRunner = func(prompt promptui.Select) (int, string, error) {
	return prompt.Run()
}

func NewPrompter() Prompter {
	return &realPrompter{}
}

func yesNoBase(promptStr string, orderedOptions []string) (bool, error) {
	prompt := promptui.Select{
		Label: promptStr,
		Items: orderedOptions,
	}

	_, decision, err := promptUISelectRunner(prompt)
	if err != nil {
		return false, err
	}
	return decision == Yes, nil
}

func (*realPrompter) CaptureNoYes(promptStr string) (bool, error) {
	return yesNoBase(promptStr, []string{No, Yes})
}

// CaptureMnemonic asks for a bip39 phrase, without echoing it
func (*realPrompter) CaptureMnemonic(promptStr string) (string, error) {
	prompt := promptui.Prompt{
		Label:    promptStr,
		Mask:     '*',
		Validate: validateMnemonic,
	}

	mnemonic, err := promptUIRunner(prompt)
	if err != nil {
		return "", err
	}
	return normalizeMnemonic(mnemonic), nil
}
