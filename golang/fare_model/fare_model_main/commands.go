package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/data"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
)

var graphCommand = &cobra.Command{
	Use:   "graph",
	Short: "Render the pipeline structure (png, svg, jpg or dot by extension).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// a handful of rows is enough to know the columns
		source := cfg.Source()
		switch s := source.(type) {
		case data.CSVSource:
			s.NRows = 10
			source = s
		case data.BoltSource:
			s.NRows = 10
			source = s
		case data.SyntheticSource:
			s.Rows = 10
			source = s
		}
		ds, err := data.GetData(source)
		if err != nil {
			return err
		}
		if ds, err = data.CleanData(ds, cfg.Clean); err != nil {
			return err
		}
		X, y, err := data.ToFrame(ds, cfg.Model.Target)
		if err != nil {
			return err
		}
		opts, err := cfg.TrainerOptions()
		if err != nil {
			return err
		}
		trainer := fml.NewTrainer(X, y, opts)
		if err := trainer.SetPipeline(); err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		if err := trainer.Pipeline().RenderGraph(out); err != nil {
			return err
		}
		log.Info().Str("file", out).Msg("pipeline rendered")
		return nil
	},
}

var importCommand = &cobra.Command{
	Use:   "import",
	Short: "Copy trips from a csv file into a trip store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		csvPath, _ := cmd.Flags().GetString("csv")
		dbPath, _ := cmd.Flags().GetString("db")
		nrows, _ := cmd.Flags().GetInt("nrows")

		ds, err := data.GetData(data.CSVSource{Path: csvPath, NRows: nrows})
		if err != nil {
			return err
		}
		store, err := data.OpenTripStore(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		stored, err := store.Import(ds)
		if err != nil {
			return err
		}
		total, err := store.Count()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d trips stored, %d in %s\n", stored, total, dbPath)
		return nil
	},
}

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Write synthetic New York trips to a csv file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		rows, _ := cmd.Flags().GetInt("rows")
		seed, _ := cmd.Flags().GetInt64("seed")
		out, _ := cmd.Flags().GetString("out")

		ds, err := data.SyntheticSource{Rows: rows, Seed: seed}.GetData()
		if err != nil {
			return err
		}
		if err := data.WriteCSV(ds, out); err != nil {
			return err
		}
		log.Info().Int("rows", rows).Str("file", out).Msg("synthetic trips written")
		return nil
	},
}

func init() {
	graphCommand.Flags().StringP("out", "o", "pipeline.svg", "picture file")

	importCommand.Flags().String("csv", "train.csv", "csv file with trips")
	importCommand.Flags().String("db", "trips.db", "trip store file")
	importCommand.Flags().Int("nrows", 0, "rows to read, 0 for all")

	generateCommand.Flags().Int("rows", 10000, "number of trips")
	generateCommand.Flags().Int64("seed", 42, "random seed")
	generateCommand.Flags().StringP("out", "o", "train.csv", "csv file to write")
}
