package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soocke/box-annotator/config"
)

const (
	EnvConfig  = "ANNOTATOR_CONFIG"
	EnvDataset = "ANNOTATOR_DATASET"
)

// Session is what the root command hands to the UI runner.
type Session struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger
	// Image is an optional single source to import and open.
	Image string
}

// RunUI starts the desktop window and blocks until it closes.
type RunUI func(s Session) error

type rootOptions struct {
	configPath string
	datasetDir string
	image      string
	index      int
	debug      bool
}

func NewRootCmd(run RunUI) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "box-annotator",
		Short: "Draw bounding boxes on images and save them as YOLO labels",
		Long: `box-annotator opens a dataset folder (train/images, train/labels) in a
desktop window. Draw, move and resize boxes with the mouse, pan with the
right button, zoom with the wheel or +/- and save one label file per image.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.applyEnv(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load(os.Stdout)
			if opts.index >= 0 {
				cfg.LastIndex = opts.index
			}
			if run == nil {
				return nil
			}
			return run(Session{Config: cfg, ConfigPath: opts.configPath, Logger: logger, Image: opts.image})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultPath, "path to the JSON config file")
	pf.StringVar(&opts.datasetDir, "dataset", "", "dataset root directory (overrides config)")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f := cmd.Flags()
	f.IntVar(&opts.index, "index", -1, "image index to open first")
	f.StringVar(&opts.image, "image", "", "annotate a single image: file path, http(s) URL or screen[:x,y,w,h]")

	cmd.AddCommand(newClassesCmd(opts), newExportCmd(opts))
	return cmd
}

// applyEnv fills options from the environment unless the flag was given.
func (o *rootOptions) applyEnv(cmd *cobra.Command) {
	if v := os.Getenv(EnvConfig); v != "" && !cmd.Flags().Changed("config") {
		o.configPath = v
	}
	if v := os.Getenv(EnvDataset); v != "" && !cmd.Flags().Changed("dataset") {
		o.datasetDir = v
	}
}

// load reads the config file and applies flag overrides. A broken config
// file is reported and replaced by defaults.
func (o *rootOptions) load(logOut io.Writer) (*config.Config, *slog.Logger) {
	cfg, err := config.Load(o.configPath)
	if o.datasetDir != "" {
		cfg.DatasetDir = o.datasetDir
	}
	if o.debug {
		cfg.Debug = true
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(logOut, level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", o.configPath, "error", err)
	}
	return cfg, logger
}
