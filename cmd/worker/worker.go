package worker

import "github.com/spf13/cobra"

// NewWorkerCmd returns the parent "worker" command.
func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background workers",
		Long:  "Workers consume the notifications topic the API publishes to when kafka.brokers is set.",
	}
	cmd.AddCommand(mailerCmd)

	return cmd
}
