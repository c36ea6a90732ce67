package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/formdom/internal/presentation"
)

// errInvalidForms marks a run where at least one form failed validation.
var errInvalidForms = errors.New("one or more forms are invalid")

var validateCmd = &cobra.Command{
	Use:   "validate PATH...",
	Short: "Check the aggregate validity of every form",
	Long: `Load HTML files and check each form's validity. A form is valid when
every control in its registry passes constraint validation.

Exits with status 1 when any form is invalid.`,
	Example: `  formdom validate signup.html
  formdom validate site/ --format json`,
	Args: requireArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	docs, err := rt.load(cmd.Context(), args)
	if err != nil {
		return err
	}
	captured := rt.capture(cmd.Context(), docs)
	if err := rt.formatter.FormatForms(presentation.FromSnapshots(captured)); err != nil {
		return err
	}
	if anyInvalid(captured) {
		return &ExitError{Code: ExitInvalid, Err: errInvalidForms}
	}
	return nil
}
