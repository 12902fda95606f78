package main

import (
	"context"
	"encoding/json"
	"errors"
	"etfgrid/api"
	"etfgrid/cmd"
	"etfgrid/internal/logger"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := cmd.Options{}

	root := &cobra.Command{
		Use:          "etfgrid",
		Short:        "Monitor ETF prices against a valuation-tiered grid and push trade signals",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $ETFGRID_CONFIG or config.yaml)")
	root.PersistentFlags().StringVar(&opts.StatePath, "state", "", "state file (default $ETFGRID_STATE or state.json)")
	root.PersistentFlags().StringVar(&opts.JournalPath, "journal", "", "signal journal csv (default $ETFGRID_JOURNAL or signals.csv)")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file with credentials (default .env)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor loop until interrupted",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(c.Context(), opts, func(ctx context.Context, h *api.ApiHandler) error {
				return h.Monitor.Run(ctx)
			})
		},
	}

	onceCmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single evaluation cycle and print the result",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(c.Context(), opts, func(ctx context.Context, h *api.ApiHandler) error {
				result, err := h.Monitor.RunCycle(ctx)
				if result != nil {
					for _, a := range result.Assets {
						if a.Err != nil {
							fmt.Printf("%s: skipped (%v)\n", a.Name, a.Err)
							continue
						}
						fmt.Printf("%s: price=%.4f grid=%d tier=%s\n", a.Name, *a.Price, *a.Grid, a.Tier.Describe())
					}
					for _, s := range result.Signals {
						fmt.Printf("\n%s\n", s.Message)
					}
				}
				return err
			})
		},
	}

	var port int
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the monitor loop and serve the HTTP API",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(c.Context(), opts, func(ctx context.Context, h *api.ApiHandler) error {
				return serve(ctx, h, port)
			})
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 3009, "http port")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Print the persisted state document",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(c.Context(), opts, func(ctx context.Context, h *api.ApiHandler) error {
				if err := h.Monitor.Init(ctx); err != nil {
					return err
				}
				return printJSON(h.Monitor.State())
			})
		},
	}

	rotationCmd := &cobra.Command{
		Use:   "rotation",
		Short: "Print the current rotation plan",
		RunE: func(c *cobra.Command, args []string) error {
			return withHandler(c.Context(), opts, func(ctx context.Context, h *api.ApiHandler) error {
				plan := h.Monitor.Rotation(ctx)
				if plan == nil {
					fmt.Println("rotation is not enabled")
					return nil
				}
				return printJSON(plan)
			})
		},
	}

	root.AddCommand(runCmd, onceCmd, serveCmd, stateCmd, rotationCmd)
	root.RunE = runCmd.RunE
	return root
}

func withHandler(parent context.Context, opts cmd.Options, fn func(ctx context.Context, h *api.ApiHandler) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New()
	defer log.Sync()
	ctx = logger.WithContext(ctx, log)

	h, err := cmd.InitializeDependencies(ctx, opts)
	if err != nil {
		log.Errorf("failed to initialize: %v", err)
		return err
	}
	return fn(ctx, h)
}

func serve(ctx context.Context, h *api.ApiHandler, port int) error {
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: h.InitializeRouterEngine(),
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- h.Monitor.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("api listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var apiErr error
	select {
	case <-ctx.Done():
	case apiErr = <-serveErr:
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("failed to shut down api: %v", err)
	}
	loopErr := <-loopDone
	if apiErr != nil {
		return fmt.Errorf("failed to serve api: %w", apiErr)
	}
	return loopErr
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
