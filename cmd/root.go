// Package cmd implements the lpsimplex command line.
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"q.log/lpsimplex/config"
)

// Version is set at link time.
var Version = "dev"

// Context is shared by every command. It is filled in before a command runs.
type Context struct {
	Output io.Writer
	Config config.Config
	Logger *zap.Logger

	viper      *viper.Viper
	configFile string
}

// NewRootCmd builds the "lpsimplex" command tree writing results to out and
// logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	cxt := &Context{
		Output: out,
		Logger: zap.NewNop(),
		viper:  viper.New(),
	}

	cmd := &cobra.Command{
		Use:   "lpsimplex",
		Short: "Solve linear programs with the tableau simplex method",
		Long: `lpsimplex reads linear programs in table, expression or MPS form and
solves them with the dense tableau simplex method, or with gonum or GLPK
for comparison.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cxt.viper, cmd.Flags(), cxt.configFile)
			if err != nil {
				return err
			}
			cxt.Config = c

			logger, err := newLogger(errOut, c.LogLevel, c.LogFormat)
			if err != nil {
				return err
			}
			cxt.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = cxt.Logger.Sync()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&cxt.configFile, "config", "", "config file (yaml, json or toml)")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewSolveCmd(cxt),
		NewCanonicalCmd(cxt),
		NewVersionCmd(cxt),
	)

	return cmd
}

// Execute runs the command line and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
