/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/allbin/fwkit/internal/config"
	"github.com/allbin/fwkit/internal/logging"
)

var (
	cfgFile string
	v       = config.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fwkit",
	Short: "Firmware workflow helpers for ESP32 boards",
	Long: `fwkit patches the firmware source and watches the board's serial output.

  fwkit patch      fix the admin page body block in src/main.cpp
  fwkit monitor    print serial output for a fixed duration
  fwkit list       find serial ports
  fwkit reset      reboot the board through RTS/DTR

Settings come from flags, FWKIT_* environment variables and an optional
.fwkit.yaml in the home or working directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevel(logging.ParseLevel(v.GetString("log_level")))
		if used := v.ConfigFileUsed(); used != "" {
			logging.Debugf("using config file %s", used)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fwkit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file if one exists.
func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(config.FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig validates the merged settings or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// deviceArg is the optional port argument, falling back to monitor.device.
func deviceArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return loadConfig().Monitor.Device
}
