package flow

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/config"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/data"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/monitor"
)

//Stage is how far a run got.
type Stage int

const (
	Start Stage = iota
	Loaded
	Cleaned
	Split
	Trained
	Evaluated
	Reported
)

var stageNames = []string{"Start", "Loaded", "Cleaned", "Split", "Trained", "Evaluated", "Reported"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

//Result is what a finished run produced.
type Result struct {
	Rmse      float64
	TrainRows int
	TestRows  int
	Trainer   *fml.Trainer
}

//Flow runs load, clean, split, train, evaluate and report once. Any error stops the run, nothing is retried.
type Flow struct {
	Config  config.Config
	Source  data.Source
	Metrics *monitor.Metrics
	Out     io.Writer

	stage Stage
}

//New builds a flow over the configured source. The RMSE is printed to out.
func New(cfg config.Config, out io.Writer) *Flow {
	return &Flow{Config: cfg, Source: cfg.Source(), Metrics: monitor.New(), Out: out}
}

//Stage returns the last stage reached.
func (f *Flow) Stage() Stage {
	return f.stage
}

func (f *Flow) advance(next Stage) {
	if next != f.stage+1 {
		log.Panic().Stringer("from", f.stage).Stringer("to", next).Msg("illegal stage transition")
	}
	log.Debug().Stringer("from", f.stage).Stringer("to", next).Msg("stage")
	f.stage = next
}

//Run executes every stage in order.
func (f *Flow) Run() (result Result, err error) {
	f.stage = Start
	defer func() {
		f.Metrics.Runs.WithLabelValues(f.stage.String()).Inc()
		if err != nil {
			err = errors.Wrapf(err, "after stage %s", f.stage)
		}
	}()

	raw, err := data.GetData(f.Source)
	if err != nil {
		return Result{}, err
	}
	f.Metrics.RowsLoaded.Set(float64(raw.Nrow()))
	f.advance(Loaded)

	cleaned, err := data.CleanData(raw, f.Config.Clean)
	if err != nil {
		return Result{}, err
	}
	if cleaned.Nrow() == 0 {
		return Result{}, errors.Wrap(fml.ErrInput, "no rows left after cleaning")
	}
	f.Metrics.RowsCleaned.Set(float64(cleaned.Nrow()))
	f.advance(Cleaned)

	X, y, err := data.ToFrame(cleaned, f.Config.Model.Target)
	if err != nil {
		return Result{}, err
	}
	XTrain, XTest, yTrain, yTest, err := fml.TrainTestSplit(X, y, f.Config.Split.TestSize, f.Config.Split.Seed)
	if err != nil {
		return Result{}, err
	}
	f.Metrics.TrainRows.Set(float64(XTrain.Height()))
	f.Metrics.TestRows.Set(float64(XTest.Height()))
	f.advance(Split)

	opts, err := f.Config.TrainerOptions()
	if err != nil {
		return Result{}, err
	}
	opts.Observer = f.Metrics
	trainer := fml.NewTrainer(XTrain, yTrain, opts)
	if err := trainer.Run(); err != nil {
		return Result{}, err
	}
	f.advance(Trained)

	rmse, err := trainer.Evaluate(XTest, yTest)
	if err != nil {
		return Result{}, err
	}
	f.advance(Evaluated)

	if err := f.report(trainer, XTest, yTest, rmse); err != nil {
		return Result{}, err
	}
	f.advance(Reported)

	return Result{Rmse: rmse, TrainRows: XTrain.Height(), TestRows: XTest.Height(), Trainer: trainer}, nil
}

func (f *Flow) report(trainer *fml.Trainer, XTest *fml.Frame, yTest []float64, rmse float64) error {
	if _, err := fmt.Fprintln(f.Out, rmse); err != nil {
		return errors.Wrap(err, "print rmse")
	}
	output := f.Config.Output
	if output.NpyDir != "" {
		if err := dumpTest(trainer, XTest, yTest, output.NpyDir); err != nil {
			return err
		}
	}
	if output.GraphPath != "" {
		if err := trainer.Pipeline().RenderGraph(output.GraphPath); err != nil {
			return err
		}
	}
	if output.MetricsFile != "" {
		if err := f.Metrics.WriteTextfile(output.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}

//dumpTest writes the preprocessed test features, the predictions and the target as npy files.
func dumpTest(trainer *fml.Trainer, XTest *fml.Frame, yTest []float64, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	features, err := trainer.Transform(XTest)
	if err != nil {
		return err
	}
	prediction, err := trainer.Predict(XTest)
	if err != nil {
		return err
	}
	if err := fml.DumpNpy(path.Join(dir, "features_test.npy"), features); err != nil {
		return err
	}
	if err := fml.DumpVector(path.Join(dir, "prediction_test.npy"), prediction); err != nil {
		return err
	}
	if err := fml.DumpVector(path.Join(dir, "target_test.npy"), yTest); err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("npy files written")
	return nil
}
