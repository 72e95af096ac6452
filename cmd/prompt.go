package main

import "github.com/pterm/pterm"

// prompter asks the user for input. Commands only talk to the user through
// it, so they do not depend on how input is entered.
type prompter interface {
	Text(label, defaultValue string) (string, error)
	Confirm(label string, defaultValue bool) (bool, error)
	Select(label string, options []string) (string, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Text(label, defaultValue string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(label).WithDefaultValue(defaultValue).Show()
}

func (ptermPrompter) Confirm(label string, defaultValue bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultText(label).WithDefaultValue(defaultValue).Show()
}

func (ptermPrompter) Select(label string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.WithDefaultText(label).WithOptions(options).WithMaxHeight(len(options)).Show()
}
