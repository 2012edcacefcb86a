package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ysh86/pngme/capture"
	"github.com/ysh86/pngme/commands"
	"github.com/ysh86/pngme/internal/ledger"
	"github.com/ysh86/pngme/internal/logger"
	"github.com/ysh86/pngme/internal/server"
)

type app struct {
	ledgerPath string
	verbose    bool

	ledger *ledger.Ledger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{}
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		log.Fatalf("pngme: %v", err)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "pngme",
		Short:             "Encode and decode messages into a PNG",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.ledgerPath, "ledger", getEnv("PNGME_LEDGER", ""), "SQLite database recording edits (empty disables history)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.removeCmd(),
		a.printCmd(),
		a.captureCmd(),
		a.historyCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.verbose {
		logger.SetLogger(logger.New(cmd.ErrOrStderr()))
	}
	if a.ledgerPath != "" {
		l, err := ledger.Open(cmd.Context(), a.ledgerPath)
		if err != nil {
			return err
		}
		a.ledger = l
		logger.Log("recording history in %s", a.ledgerPath)
	}
	return nil
}

func (a *app) close() {
	if a.ledger != nil {
		a.ledger.Close()
	}
}

func (a *app) runner(cmd *cobra.Command) *commands.Runner {
	r := &commands.Runner{Out: cmd.OutOrStdout()}
	if a.ledger != nil {
		r.Ledger = a.ledger
	}
	return r
}

func (a *app) encodeCmd() *cobra.Command {
	var compress bool
	cmd := &cobra.Command{
		Use:   "encode <file> <type> <message> [output]",
		Short: "Hide a message in a chunk of the given type",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			encodeArgs := commands.EncodeArgs{
				Path:      args[0],
				ChunkType: args[1],
				Message:   args[2],
				Compress:  compress,
			}
			if len(args) == 4 {
				encodeArgs.Output = args[3]
			}
			return a.runner(cmd).Encode(cmd.Context(), encodeArgs)
		},
	}
	compressFlag(cmd.Flags(), &compress)
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file> <type>",
		Short: "Print the message in the first chunk of the given type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner(cmd).Decode(cmd.Context(), args[0], args[1])
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file> <type>",
		Short: "Remove the first chunk of the given type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner(cmd).Remove(cmd.Context(), args[0], args[1])
		},
	}
}

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "List the chunks of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner(cmd).Print(cmd.Context(), args[0])
		},
	}
}

func (a *app) captureCmd() *cobra.Command {
	var (
		compress bool
		config   capture.Config
	)
	cmd := &cobra.Command{
		Use:   "capture <output> <type> <message>",
		Short: "Take a screenshot and hide a message in it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner(cmd).Capture(cmd.Context(), commands.CaptureArgs{
				Output:    args[0],
				ChunkType: args[1],
				Message:   args[2],
				Compress:  compress,
				Screen:    config,
			})
		},
	}
	cmd.Flags().IntVar(&config.Display, "display", 0, "display number to capture")
	cmd.Flags().UintVar(&config.Width, "width", 0, "scale the capture to this width (0 keeps the size)")
	compressFlag(cmd.Flags(), &compress)
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded edits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runner(cmd).History(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve encode/decode/remove over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New().ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", getEnv("PNGME_ADDR", ":8080"), "HTTP service address")
	return cmd
}

func compressFlag(fs *pflag.FlagSet, p *bool) {
	fs.BoolVarP(p, "compress", "z", false, "store the message as a zstd frame")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
