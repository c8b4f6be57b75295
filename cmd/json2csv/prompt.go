package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"json2csv/internal/convert"
	"json2csv/internal/pathguard"
)

const (
	modeFlattenedChoice  = "flattened  - one CSV, nested fields become path-joined columns"
	modeNormalizedChoice = "normalized - one CSV per entity, linked by surrogate keys"
)

// resolveMode returns the mode from the flag, or asks for it.
func resolveMode(flag string) (convert.Mode, error) {
	switch convert.Mode(flag) {
	case convert.ModeFlattened, convert.ModeNormalized:
		return convert.Mode(flag), nil
	}
	if flag != "" {
		return "", fmt.Errorf("invalid mode %q: choose either %q or %q",
			flag, convert.ModeFlattened, convert.ModeNormalized)
	}

	var choice string
	err := survey.AskOne(&survey.Select{
		Message: "Conversion mode:",
		Options: []string{modeFlattenedChoice, modeNormalizedChoice},
		Default: modeFlattenedChoice,
	}, &choice)
	if err != nil {
		return "", err
	}

	if choice == modeNormalizedChoice {
		return convert.ModeNormalized, nil
	}
	return convert.ModeFlattened, nil
}

// resolveInput validates the flag value, or keeps asking until an
// existing readable file inside the allowed roots is given. A nil guard
// disables path restrictions.
func resolveInput(flag string, guard *pathguard.Guard) (string, error) {
	if flag != "" {
		return flag, guard.CheckInput(flag)
	}

	for {
		var path string
		err := survey.AskOne(&survey.Input{Message: "Input JSON file:"}, &path,
			survey.WithValidator(survey.Required))
		if err != nil {
			return "", err
		}

		if err := guard.CheckInput(path); err != nil {
			color.Red("%v", err)
			continue
		}
		return path, nil
	}
}

// resolveOutput validates the flag value, or asks with a suggestion
// derived from the input path.
func resolveOutput(flag, input string, mode convert.Mode, guard *pathguard.Guard) (string, error) {
	path := flag
	if path == "" {
		err := survey.AskOne(&survey.Input{
			Message: "Output path:",
			Default: defaultOutputPath(input, mode),
		}, &path, survey.WithValidator(survey.Required))
		if err != nil {
			return "", err
		}
	}

	return path, guard.Check(path)
}

func promptSeparator(current string) (string, error) {
	var sep string
	err := survey.AskOne(&survey.Input{
		Message: "Column name separator:",
		Default: current,
	}, &sep)
	if err != nil {
		return "", err
	}
	if sep == "" {
		sep = convert.DefaultSeparator
	}
	return sep, nil
}
