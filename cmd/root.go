package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluidlab/gofluid/pkg/board"
	"github.com/fluidlab/gofluid/pkg/config"
)

var cfgFile string
var portFlag string
var useSim bool
var verbose bool

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gofluid",
	Short: "Bench monitor for the fluid sampling board",
	Long: `gofluid talks to the fluid sampling board over a USB serial port,
polls its analog and flow channels, and keeps a rolling window of
readings per channel.

Run "gofluid monitor" for the interactive view, "gofluid record" for
headless capture, or "gofluid ports" to see which serial ports are
visible.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "gofluid.yaml", "configuration file path")
	RootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "serial port override (e.g. COM3 or /dev/ttyACM0)")
	RootCmd.PersistentFlags().BoolVar(&useSim, "sim", false, "use a simulated board instead of a serial port")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig loads the configuration file and applies command line
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override serial port if provided via command line
	if portFlag != "" {
		cfg.Serial.Port = portFlag
	}

	return cfg, nil
}

// newLink picks the board transport for this invocation.
func newLink(cfg *config.Config) (board.Link, error) {
	if useSim {
		reg, err := cfg.Registry()
		if err != nil {
			return nil, err
		}
		return board.NewSim(reg, &cfg.Sim), nil
	}
	return board.NewSerial(&cfg.Serial), nil
}
