package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/NYTimes/logrotate"
	"github.com/apex/log"
	"github.com/apex/log/handlers/multi"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/pterodactyl/fh/accessor"
	"github.com/pterodactyl/fh/config"
	"github.com/pterodactyl/fh/loggers/cli"
	"github.com/pterodactyl/fh/system"
)

var (
	configPath  = config.DefaultLocation
	debug       = false
	logFile     = ""
	showVersion = false
)

var root = &cobra.Command{
	Use:           "fh",
	Short:         "Position aware, filtered reads and writes on a single file",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("config") {
			p, err := findConfiguration(configCandidates())
			if err != nil {
				return err
			}
			configPath = p
		}
		c, err := readConfiguration()
		if err != nil {
			return err
		}
		if debug {
			c.Debug = true
		}
		if logFile != "" {
			c.LogFile = logFile
		}
		config.Set(c)
		return configureLogging(c.LogFile, c.Debug)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		if showVersion {
			printVersion(cmd)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	root.PersistentFlags().BoolVar(&showVersion, "version", false, "show the version and exit")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultLocation, "set the location for the configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "pass in order to enable debug logging")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file, reopened on SIGHUP")

	root.AddCommand(newReadCommand())
	root.AddCommand(newLineCommand())
	root.AddCommand(newWriteCommand())
	root.AddCommand(newStatCommand())
	root.AddCommand(newExistsCommand())
	root.AddCommand(newMtimeCommand())
	root.AddCommand(newRemoveCommand())
}

// Execute runs the command line interface.
func Execute() error {
	err := root.Execute()
	if err != nil {
		log.WithField("error", err).Error("command failed")
	}
	return err
}

// readConfiguration loads the configuration file given with --config,
// resolving relative paths against the working directory.
func readConfiguration() (*config.Configuration, error) {
	p := configPath
	if !filepath.IsAbs(p) {
		d, err := os.Getwd()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		p = filepath.Clean(filepath.Join(d, configPath))
	}
	if s, err := os.Stat(p); err == nil && s.IsDir() {
		return nil, errors.New("cannot use directory as configuration file path")
	}
	return config.ReadConfiguration(p)
}

// configureLogging installs the command line log handler and, when logPath is
// set, a second handler writing to a file that can be rotated.
func configureLogging(logPath string, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	cli.Default.Stacktraces = debug
	if logPath == "" {
		log.SetHandler(cli.Default)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return errors.WithMessage(err, "failed to create log directory")
	}
	w, err := logrotate.NewFile(logPath)
	if err != nil {
		return errors.WithMessage(err, "failed to open process log file")
	}
	fh := cli.New(w.File, false)
	fh.Stacktraces = true
	log.SetHandler(multi.New(cli.Default, fh))
	log.WithField("path", logPath).Debug("writing log files to disk")
	return nil
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), colorstring.Color("[bold]fh[reset] v%s\nbuffer sizes [blue]%d[reset]-[blue]%d[reset] bytes, default [blue]%d[reset]\n"),
		system.Version, accessor.MinBufferSize, accessor.MaxBufferSize, accessor.DefaultBufferSize)
}
