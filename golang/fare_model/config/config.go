package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/data"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
)

type Config struct {
	LogLevel string          `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	Data     DataConfig      `yaml:"data"`
	Clean    data.CleanRules `yaml:"clean"`
	Split    SplitConfig     `yaml:"split"`
	Model    ModelConfig     `yaml:"model"`
	Features FeaturesConfig  `yaml:"features"`
	Output   OutputConfig    `yaml:"output"`
}

type DataConfig struct {
	Source string `yaml:"source" validate:"oneof=csv bolt synthetic"`
	Path   string `yaml:"path" validate:"required_unless=Source synthetic"`
	NRows  int    `yaml:"nrows" validate:"gte=0"`
	Seed   int64  `yaml:"seed"`
}

type SplitConfig struct {
	TestSize float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed     int64   `yaml:"seed"`
}

type ModelConfig struct {
	Target    string  `yaml:"target" validate:"required"`
	RegLambda float64 `yaml:"reg_lambda" validate:"gte=0"`
}

type FeaturesConfig struct {
	TimeColumn    string `yaml:"time_column" validate:"required"`
	Timezone      string `yaml:"timezone" validate:"required"`
	NaNPolicy     string `yaml:"nan_policy" validate:"oneof=fail propagate"`
	UnknownPolicy string `yaml:"unknown_policy" validate:"oneof=ignore error"`
}

type OutputConfig struct {
	MetricsFile string `yaml:"metrics_file"`
	NpyDir      string `yaml:"npy_dir"`
	GraphPath   string `yaml:"graph_path"`
}

//Default returns the configuration of a plain run: ten thousand synthetic trips, 20% held out.
func Default() Config {
	return Config{
		LogLevel: "info",
		Data: DataConfig{
			Source: "synthetic",
			NRows:  10000,
			Seed:   42,
		},
		Clean: data.DefaultCleanRules(),
		Split: SplitConfig{TestSize: 0.2, Seed: 42},
		Model: ModelConfig{
			Target:    data.ColFare,
			RegLambda: fml.NewLinearRegression().RegLambda,
		},
		Features: FeaturesConfig{
			TimeColumn:    data.ColPickupDatetime,
			Timezone:      fml.DefaultTimezone,
			NaNPolicy:     "fail",
			UnknownPolicy: "ignore",
		},
	}
}

//Load reads the yaml file over the defaults, applies FARE_* environment overrides and validates the result.
//An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Data.Source = getEnvOrDefault("FARE_DATA_SOURCE", c.Data.Source)
	c.Data.Path = getEnvOrDefault("FARE_DATA_PATH", c.Data.Path)
	c.LogLevel = getEnvOrDefault("FARE_LOG_LEVEL", c.LogLevel)
	c.Output.MetricsFile = getEnvOrDefault("FARE_METRICS_FILE", c.Output.MetricsFile)
	c.Features.Timezone = getEnvOrDefault("FARE_TIMEZONE", c.Features.Timezone)

	if value := os.Getenv("FARE_TEST_SIZE"); value != "" {
		testSize, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "FARE_TEST_SIZE=%q", value)
		}
		c.Split.TestSize = testSize
	}
	if value := os.Getenv("FARE_SEED"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "FARE_SEED=%q", value)
		}
		c.Split.Seed = seed
		c.Data.Seed = seed
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

//Validate checks the struct tags and that the timezone exists.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if _, err := time.LoadLocation(c.Features.Timezone); err != nil {
		return errors.Wrapf(err, "invalid config: timezone %q", c.Features.Timezone)
	}
	if c.Data.Source == "synthetic" && c.Data.NRows == 0 {
		return errors.New("invalid config: synthetic data needs nrows")
	}
	return nil
}

//Level converts LogLevel for zerolog.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

//Source builds the configured data source.
func (c Config) Source() data.Source {
	switch c.Data.Source {
	case "csv":
		return data.CSVSource{Path: c.Data.Path, NRows: c.Data.NRows}
	case "bolt":
		return data.BoltSource{Path: c.Data.Path, NRows: c.Data.NRows}
	}
	return data.SyntheticSource{Rows: c.Data.NRows, Seed: c.Data.Seed}
}

//TrainerOptions translates the feature and model sections.
func (c Config) TrainerOptions() (fml.TrainerOptions, error) {
	location, err := time.LoadLocation(c.Features.Timezone)
	if err != nil {
		return fml.TrainerOptions{}, errors.Wrapf(err, "timezone %q", c.Features.Timezone)
	}
	opts := fml.TrainerOptions{
		TimeColumn: c.Features.TimeColumn,
		Location:   location,
		NaN:        fml.NaNFail,
		Unknown:    fml.UnknownIgnore,
		RegLambda:  c.Model.RegLambda,
	}
	if c.Features.NaNPolicy == "propagate" {
		opts.NaN = fml.NaNPropagate
	}
	if c.Features.UnknownPolicy == "error" {
		opts.Unknown = fml.UnknownError
	}
	return opts, nil
}
