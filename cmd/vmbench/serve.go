package main

import (
	"log/slog"

	"github.com/DjordjeVuckovic/vm-bench/internal/router"
	"github.com/DjordjeVuckovic/vm-bench/internal/server"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage"
	"github.com/DjordjeVuckovic/vm-bench/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/vm-bench/pkg/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var dir, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report CSVs and merges over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.ResultsDir = dir
			}
			if port != "" {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sinkCfg, err := factory.LoadEnv()
			if err != nil {
				return err
			}
			sink, err := factory.NewSink(cmd.Context(), sinkCfg)
			if err != nil {
				return err
			}
			defer sink.Close()

			s := server.New(cfg, pkgserver.NewDirHealthChecker(cfg.ResultsDir)).
				SetupMiddlewares().
				SetupHealthChecks()
			router.NewReportsRouter(s.Echo, cfg.ResultsDir).Bind()
			if loader, ok := sink.(storage.RunLoader); ok {
				router.NewRunsRouter(s.Echo, loader).Bind()
				slog.Info("Serving stored runs", "sink", sinkCfg.Type)
			}

			return s.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Results directory (overrides RESULTS_DIR)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}
