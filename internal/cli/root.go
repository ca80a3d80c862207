package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskmanager/internal/app"
	"taskmanager/internal/config"
	"taskmanager/internal/view"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand creates the root command. Without a subcommand it serves the web UI.
func NewRootCommand() *cobra.Command {
	var (
		envFile     string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:           "taskmanager",
		Short:         "Task Manager - task overview web UI",
		Long:          `Task Manager serves a single page with a header bar and a task overview: a dated heading, a progress bar and tasks grouped by status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return printVersion(cmd, envFile)
			}
			return runServe(cmd, envFile)
		},
	}
	cmd.Flags().BoolVar(&showVersion, "version", false, "print the version and exit")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")

	cmd.AddCommand(newServeCommand(&envFile))
	cmd.AddCommand(newOverviewCommand(&envFile))
	cmd.AddCommand(newVersionCommand(&envFile))
	return cmd
}

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *envFile)
		},
	}
}

func newOverviewCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the task overview to the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			log, err := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}
			return view.RenderText(cmd.OutOrStdout(), a.Overview().Snapshot())
		},
	}
}

func newVersionCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd, *envFile)
		},
	}
}

// printVersion reports VERSION as resolved from the environment and dotenv file.
func printVersion(cmd *cobra.Command, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "taskmanager %s\n", cfg.App.Version)
	return nil
}

func runServe(cmd *cobra.Command, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log.Info("config loaded", "env", cfg.App.Env, "version", cfg.App.Version)

	ctx := cmd.Context()
	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("app init: %w", err)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return application.Close(shutdownCtx)
}
