package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/f4ah6o/devshot/internal/browser"
	"github.com/f4ah6o/devshot/internal/buildinfo"
	"github.com/f4ah6o/devshot/internal/capture"
	"github.com/f4ah6o/devshot/internal/config"
	"github.com/f4ah6o/devshot/internal/logger"
)

// ExecuteScreenshot runs the screenshot command and exits non-zero on failure.
func ExecuteScreenshot() {
	if err := newScreenshotCmd(chromeBrowser).Execute(); err != nil {
		os.Exit(1)
	}
}

// browserFactory builds the Browser used for a run.
type browserFactory func(cfg config.Screenshot, log *slog.Logger) capture.Browser

func chromeBrowser(cfg config.Screenshot, log *slog.Logger) capture.Browser {
	return browser.NewChrome(browser.Options{
		ExecPath:  cfg.ChromePath,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	})
}

type screenshotFlags struct {
	dir           string
	width         int
	height        int
	timeout       time.Duration
	format        string
	json          bool
	markdown      bool
	thumbWidth    int
	respectRobots bool
	chromePath    string
	configPath    string
	debug         bool
	logJSON       bool
}

func newScreenshotCmd(newBrowser browserFactory) *cobra.Command {
	var f screenshotFlags

	c := &cobra.Command{
		Use:          "screenshot [url] [label]",
		Short:        "Capture a full-page screenshot of a URL",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.json {
				f.format = "json"
			}
			if f.format != "pretty" && f.format != "json" {
				return fmt.Errorf("unknown format %q (want pretty or json)", f.format)
			}

			log := logger.Setup(logger.Config{Out: cmd.ErrOrStderr(), Debug: f.debug, JSON: f.logJSON})

			cfg, cfgPath, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if cfgPath != "" {
				log.Debug("config.loaded", "path", cfgPath)
			}
			sc, opts := resolveScreenshot(cmd, cfg.Screenshot, f, args)

			robots := capture.NewRobotsGuard(&http.Client{Timeout: 10 * time.Second}, sc.UserAgent, log)
			shooter := capture.NewShooter(newBrowser(sc, log), robots, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := shooter.Shoot(ctx, opts)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, f.format)
		},
	}

	c.Flags().StringVarP(&f.dir, "dir", "d", capture.DefaultDir, "Output directory")
	c.Flags().IntVar(&f.width, "width", capture.DefaultWidth, "Viewport width")
	c.Flags().IntVar(&f.height, "height", capture.DefaultHeight, "Viewport height")
	c.Flags().DurationVar(&f.timeout, "timeout", capture.DefaultTimeout, "Navigation timeout")
	c.Flags().StringVar(&f.format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&f.json, "json", false, "Shorthand for --format json")
	c.Flags().BoolVar(&f.markdown, "markdown", false, "Also save the page's main content as Markdown")
	c.Flags().IntVar(&f.thumbWidth, "thumb-width", 0, "Also save a thumbnail of this width")
	c.Flags().BoolVar(&f.respectRobots, "respect-robots", false, "Refuse URLs disallowed by robots.txt")
	c.Flags().StringVar(&f.chromePath, "chrome-path", "", "Chrome executable (default: autodetect)")
	c.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: devshot.toml/.yaml in the working directory)")
	c.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	c.Flags().BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON")
	buildinfo.Apply(c, "screenshot")
	return c
}

// resolveScreenshot layers explicit flags and positional arguments over cfg.
func resolveScreenshot(cmd *cobra.Command, cfg config.Screenshot, f screenshotFlags, args []string) (config.Screenshot, capture.Options) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = f.dir
	}
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
	if flags.Changed("timeout") {
		cfg.Timeout.Duration = f.timeout
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = f.chromePath
	}

	var label string
	if len(args) > 0 && args[0] != "" {
		cfg.URL = args[0]
	}
	if len(args) > 1 {
		label = args[1]
	}

	return cfg, capture.Options{
		URL:           cfg.URL,
		Label:         label,
		Dir:           cfg.Dir,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Timeout:       cfg.Timeout.Duration,
		Quiet:         cfg.Quiet.Duration,
		MaxInflight:   cfg.MaxInflight,
		Markdown:      f.markdown,
		ThumbWidth:    f.thumbWidth,
		RespectRobots: f.respectRobots,
	}
}
