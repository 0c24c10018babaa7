package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd builds a "lpsimplex version" command
func NewVersionCmd(cxt *Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cxt.Output, "lpsimplex %s\n", Version)
			return err
		},
	}
}
