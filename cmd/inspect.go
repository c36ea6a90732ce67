package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/formdom/internal/presentation"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH...",
	Short: "Print every form's control registry",
	Long: `Load HTML files and print each form's registered controls in document
order with the name, kind and validity of every slot.

PATH may be a file, a directory (every *.html file below it) or a glob
such as 'site/**/*.html'. Files without a <form> are skipped.`,
	Example: `  formdom inspect index.html
  formdom inspect 'templates/**/*.html' --format json`,
	Args: requireArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	docs, err := rt.load(cmd.Context(), args)
	if err != nil {
		return err
	}
	return rt.formatter.FormatForms(presentation.FromSnapshots(rt.capture(cmd.Context(), docs)))
}
