package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks <document-id>",
		Short: "List the tasks created from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			res, err := a.taskService().ListTasks(ctx, args[0])
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			if a.jsonOutput {
				return a.printJSON(cmd.OutOrStdout(), res)
			}
			if len(res.Tasks) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No tasks for %s\n", args[0])
				return nil
			}
			return printTasks(cmd.OutOrStdout(), res.Tasks)
		},
	}
}
