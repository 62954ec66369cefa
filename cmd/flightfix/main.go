package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ScriptKitty10/AmadorUAVs-2024/internal/logging"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/config"
	"github.com/ScriptKitty10/AmadorUAVs-2024/pkg/mission"
)

// errInvalid is returned when a command found validation errors it has
// already printed.
var errInvalid = errors.New("validation failed")

// app carries what PersistentPreRunE sets up for every command.
type app struct {
	configPath string
	logLevel   string
	logFile    string

	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

func main() {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "flightfix",
		Short:         "Repair flight plans so every leg stays inside the geofence margin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./flightfix.yaml or ./configs/flightfix.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to a rotating file instead of stderr")

	rootCmd.AddCommand(repairCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(batchCmd(a))
	rootCmd.AddCommand(serveCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = a.logFile
	}

	log, closer, err := logging.New(cfg.LogOptions())
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	return nil
}

func repairCmd(a *app) *cobra.Command {
	var opts repairOptions

	cmd := &cobra.Command{
		Use:   "repair [input-file]",
		Short: "Repair a flight plan and write a QGroundControl mission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd.Context(), a, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", mission.DefaultFile, "mission file to write")
	cmd.Flags().StringVar(&opts.geojson, "geojson", "", "also write a GeoJSON map of the run")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the before/after listing")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate input files, or .plan mission files, without repairing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(a, args)
		},
	}
}

func batchCmd(a *app) *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch [input-file...]",
		Short: "Repair several flight plans in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), a, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "dir", "d", ".", "directory for the mission files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "number of plans repaired at once")
	return cmd
}

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the repair API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
