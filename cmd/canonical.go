package cmd

import (
	"github.com/spf13/cobra"

	"q.log/lpsimplex/instance"
	"q.log/lpsimplex/report"
	"q.log/lpsimplex/simplex"
)

type canonicalCmd struct {
	*Context
}

// NewCanonicalCmd builds a "lpsimplex canonical" command
func NewCanonicalCmd(cxt *Context) *cobra.Command {
	canonicalCmd := &canonicalCmd{Context: cxt}
	cmd := &cobra.Command{
		Use:   "canonical FILE",
		Short: "Print a linear program and its equality form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return canonicalCmd.run(args[0])
		},
	}
	return cmd
}

func (c *canonicalCmd) run(file string) error {
	p, err := instance.NewReader(file, c.Config.ReaderOptions()...).Read()
	if err != nil {
		return err
	}
	if err := p.Fprint(c.Output); err != nil {
		return err
	}

	cf, err := simplex.Canonicalize(p)
	if err != nil {
		return err
	}
	return report.WriteCanonical(c.Output, cf)
}
