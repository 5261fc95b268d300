package cli

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f4ah6o/devshot/internal/buildinfo"
	"github.com/f4ah6o/devshot/internal/config"
	"github.com/f4ah6o/devshot/internal/logger"
	"github.com/f4ah6o/devshot/internal/static"
)

// ExecuteServe runs the serve command and exits non-zero on failure.
func ExecuteServe() {
	if err := newServeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type serveFlags struct {
	port       int
	index      string
	configPath string
	debug      bool
	logJSON    bool
}

func newServeCmd() *cobra.Command {
	var f serveFlags

	c := &cobra.Command{
		Use:          "serve [dir]",
		Short:        "Serve a local directory over HTTP",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.Setup(logger.Config{Out: cmd.ErrOrStderr(), Debug: f.debug, JSON: f.logJSON})

			cfg, cfgPath, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if cfgPath != "" {
				log.Debug("config.loaded", "path", cfgPath)
			}
			opts := resolveServe(cmd, cfg.Serve, f, args)

			h, err := static.NewHandler(static.Options{
				Root:   opts.Root,
				Index:  opts.Index,
				MIME:   opts.MIME,
				Logger: log,
			})
			if err != nil {
				return err
			}

			srv := static.NewServer(opts.Port, h, log)
			ln, err := srv.Listen()
			if err != nil {
				return err
			}

			port := opts.Port
			if addr, ok := ln.Addr().(*net.TCPAddr); ok {
				port = addr.Port
			}
			printServeBanner(cmd.OutOrStdout(), h.Root(), port)
			log.Info("server.start", "root", h.Root(), "addr", ln.Addr().String())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx, ln)
		},
	}

	c.Flags().IntVarP(&f.port, "port", "p", 3000, "Port to serve on")
	c.Flags().StringVar(&f.index, "index", static.DefaultIndex, "File served for /")
	c.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: devshot.toml/.yaml in the working directory)")
	c.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	c.Flags().BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON")
	buildinfo.Apply(c, "serve")
	return c
}

// resolveServe layers explicit flags and the positional directory over cfg.
func resolveServe(cmd *cobra.Command, cfg config.Serve, f serveFlags, args []string) config.Serve {
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("index") {
		cfg.Index = f.index
	}
	if len(args) > 0 {
		cfg.Root = args[0]
	}
	return cfg
}
