package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	builder "github.com/geotagx/builder"
	"github.com/geotagx/builder/pkg/adapters/fs"
	"github.com/geotagx/builder/pkg/core"
)

// config mirrors geotagx.yaml. Flags and GEOTAGX_* environment variables
// take precedence over the file.
type config struct {
	Root     string        `mapstructure:"root"`
	Out      string        `mapstructure:"out"`
	Format   string        `mapstructure:"format"`
	Minify   bool          `mapstructure:"minify"`
	Verbose  bool          `mapstructure:"verbose"`
	Debounce time.Duration `mapstructure:"debounce"`
}

var (
	cfgFile string
	cfg     config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geotagx-builder",
	Short: "Validate and bundle GeoTag-X project configurations",
	Long: `geotagx-builder checks GeoTag-X projects for configuration errors
(question keys, types, prompts, parameters and branching control flow)
and writes one self-contained bundle per valid project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: geotagx.yaml in the workspace root)")
	flags.StringP("root", "r", "", "directory holding the projects")
	flags.StringP("out", "o", "", "directory bundles are written to")
	flags.String("format", "", "bundle format (json or yaml)")
	flags.Bool("minify", true, "minify project.js and project.css")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
}

// boundFlags are the persistent flags that override geotagx.yaml keys.
var boundFlags = []string{"root", "out", "format", "minify", "verbose"}

func initConfig(cmd *cobra.Command) error {
	viper.Reset()
	flags := cmd.Root().PersistentFlags()
	for _, name := range boundFlags {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			return err
		}
	}

	viper.SetDefault("root", ".")
	viper.SetDefault("out", fs.DefaultOutputDir)
	viper.SetDefault("format", fs.DefaultBundleExt)
	viper.SetDefault("minify", true)
	viper.SetDefault("debounce", 50*time.Millisecond)

	viper.SetEnvPrefix("GEOTAGX")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if wd, err := os.Getwd(); err == nil {
		if root, err := builder.FindRoot(wd); err == nil {
			viper.SetDefault("root", root)
			viper.AddConfigPath(root)
			viper.SetConfigName(strings.TrimSuffix(builder.ConfigFile, filepath.Ext(builder.ConfigFile)))
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg = config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	// A relative root in the config file is relative to the file itself.
	if used := viper.ConfigFileUsed(); used != "" && viper.InConfig("root") && !filepath.IsAbs(cfg.Root) {
		if !flags.Changed("root") {
			cfg.Root = filepath.Join(filepath.Dir(used), cfg.Root)
		}
	}

	if cfg.Format != "" && !strings.HasPrefix(cfg.Format, ".") {
		cfg.Format = "." + cfg.Format
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	cfg.Root = root
	return nil
}

// projectDirs turns directory arguments, given relative to the working
// directory, into project identifiers relative to the root. Directories
// outside the root are passed on as absolute paths.
func projectDirs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	dirs := make([]string, 0, len(args))
	for _, arg := range args {
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(wd, arg)
		}
		rel, err := filepath.Rel(cfg.Root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			dirs = append(dirs, filepath.Clean(abs))
			continue
		}
		dirs = append(dirs, rel)
	}
	return dirs, nil
}

func newService() (*core.Service, error) {
	return builder.New(cfg.Root,
		builder.WithOutputDir(cfg.Out),
		builder.WithBundleFormat(cfg.Format),
		builder.WithMinify(cfg.Minify),
		builder.WithDebounce(cfg.Debounce),
		builder.WithLogger(slog.Default()),
	)
}
