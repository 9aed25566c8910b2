package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/config"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/flow"
)

var rootCommand = &cobra.Command{
	Use:          "fare_model",
	Short:        "Train the taxi fare model and print the RMSE on the held out trips.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = flow.New(cfg, os.Stdout).Run()
		return err
	},
}

//loadConfig reads .env, the config file and the logging flags, then sets up the logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("cannot read .env")
	}
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Debug().Str("config", configPath).Str("source", cfg.Source().String()).Msg("config loaded")
	return cfg, nil
}

func init() {
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log level")
	rootCommand.AddCommand(graphCommand, importCommand, generateCommand)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCommand.Execute(); err != nil {
		log.Error().Err(err).Msg("fare model failed")
		os.Exit(1)
	}
}
