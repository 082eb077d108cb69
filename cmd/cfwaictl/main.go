// Command cfwaictl is a thin HTTP client over cfwaid's ingress surface:
// enqueue, inspect archives, dequeue, and start/stop stages, without an
// operator ever hand-crafting HTTP calls. Grounded on the teacher's
// cobra root-command-plus-subcommands CLI shape.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:           "cfwaictl",
		Short:         "cfwai daemon control CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:7890", "cfwaid ingress base address")

	root.AddCommand(newNotifyCommand(&addr))
	root.AddCommand(newEnqueueCommand(&addr))
	root.AddCommand(newGetItemsCommand(&addr))
	root.AddCommand(newDequeueCommand(&addr))
	root.AddCommand(newStageCommand(&addr))

	return root
}
