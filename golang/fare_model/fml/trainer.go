package fml

import (
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

//DefaultTimezone is the zone pickup times are read in when nothing else is configured.
const DefaultTimezone = "America/New_York"

//Observer receives training measurements. monitor.Metrics implements it.
type Observer interface {
	ObserveFit(elapsed time.Duration)
	ObserveRmse(rmse float64)
}

//TrainerOptions are the explicit knobs of the fare pipeline.
type TrainerOptions struct {
	TimeColumn string
	Location   *time.Location
	NaN        NaNPolicy
	Unknown    UnknownPolicy
	RegLambda  float64
	Observer   Observer
}

//DefaultTrainerOptions reads pickup_datetime in New York time and fails on missing coordinates.
func DefaultTrainerOptions() TrainerOptions {
	location, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		log.Panic().Err(err).Str("timezone", DefaultTimezone).Msg("zone database has no default timezone")
	}
	return TrainerOptions{
		TimeColumn: "pickup_datetime",
		Location:   location,
		NaN:        NaNFail,
		Unknown:    UnknownIgnore,
		RegLambda:  NewLinearRegression().RegLambda,
	}
}

//NewTrainerOptions starts from the defaults. A non empty timezone replaces the default zone,
//a positive regLambda replaces the default jitter.
func NewTrainerOptions(timezone string, regLambda float64) (TrainerOptions, error) {
	opts := DefaultTrainerOptions()
	if timezone != "" {
		location, err := time.LoadLocation(timezone)
		if err != nil {
			return TrainerOptions{}, errors.Wrapf(ErrInput, "timezone %q: %v", timezone, err)
		}
		opts.Location = location
	}
	if regLambda > 0 {
		opts.RegLambda = regLambda
	}
	return opts, nil
}

//Trainer fits the fare pipeline on a training frame and evaluates it on held out data.
type Trainer struct {
	X    *Frame
	y    []float64
	opts TrainerOptions

	pipeline *Pipeline
}

//NewTrainer keeps the training data. Nothing is built or fitted yet.
func NewTrainer(X *Frame, y []float64, opts TrainerOptions) *Trainer {
	if opts.TimeColumn == "" {
		opts.TimeColumn = "pickup_datetime"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Trainer{X: X, y: y, opts: opts}
}

//SetPipeline builds a fresh unfitted pipeline:
//distance route (haversine, standard scaler) and time route (time features, one-hot) followed by linear regression.
func (t *Trainer) SetPipeline() error {
	if t.X == nil {
		return errors.Wrap(ErrInput, "trainer without data")
	}
	distance := NewDistanceTransformer(t.opts.NaN)
	timeFeatures := NewTimeFeaturesEncoder(t.opts.TimeColumn, t.opts.Location)

	preprocessor, err := NewColumnTransformer(t.X.Schema(), RemainderDrop,
		Route{
			Name:    "distance",
			Columns: distance.Requires().Names(),
			Transformer: NewChain("distance",
				Step{Name: "dist_trans", Transformer: distance},
				Step{Name: "stdscaler", Transformer: StandardScaler{}},
			),
		},
		Route{
			Name:    "time",
			Columns: []string{t.opts.TimeColumn},
			Transformer: NewChain("time",
				Step{Name: "time_enc", Transformer: timeFeatures},
				Step{Name: "ohe", Transformer: OneHotEncoder{Unknown: t.opts.Unknown}},
			),
		},
	)
	if err != nil {
		return err
	}
	t.pipeline = NewPipeline(preprocessor, LinearRegression{RegLambda: t.opts.RegLambda})
	return nil
}

//Run builds the pipeline and fits it from scratch on the training data.
func (t *Trainer) Run() error {
	if err := t.SetPipeline(); err != nil {
		return err
	}
	started := time.Now()
	if err := t.pipeline.Fit(t.X, t.y); err != nil {
		return err
	}
	elapsed := time.Since(started)
	if t.opts.Observer != nil {
		t.opts.Observer.ObserveFit(elapsed)
	}
	log.Info().Int("rows", t.X.Height()).Int("features", len(t.pipeline.FeatureNames())).Dur("elapsed", elapsed).Msg("trained")
	return nil
}

//Pipeline returns the current pipeline, nil before SetPipeline or Run.
func (t *Trainer) Pipeline() *Pipeline {
	return t.pipeline
}

//Predict returns fares for X.
func (t *Trainer) Predict(X *Frame) ([]float64, error) {
	if t.pipeline == nil {
		return nil, ErrNotFitted
	}
	return t.pipeline.Predict(X)
}

//Transform returns the preprocessed design matrix for X.
func (t *Trainer) Transform(X *Frame) (*mat.Dense, error) {
	if t.pipeline == nil {
		return nil, ErrNotFitted
	}
	return t.pipeline.Transform(X)
}

//Evaluate predicts XTest and returns the RMSE against yTest.
func (t *Trainer) Evaluate(XTest *Frame, yTest []float64) (float64, error) {
	if t.pipeline == nil || !t.pipeline.Fitted() {
		return 0, ErrNotFitted
	}
	if err := checkTarget(XTest, yTest); err != nil {
		return 0, err
	}
	prediction, err := t.pipeline.Predict(XTest)
	if err != nil {
		return 0, err
	}
	rmse, err := Rmse(yTest, prediction)
	if err != nil {
		return 0, err
	}
	if t.opts.Observer != nil {
		t.opts.Observer.ObserveRmse(rmse)
	}
	log.Info().Int("rows", XTest.Height()).Float64("rmse", rmse).Msg("evaluated")
	return rmse, nil
}

//Coefficients returns the fitted intercept and weights of the linear model.
func (t *Trainer) Coefficients() (LinearState, error) {
	if t.pipeline == nil || !t.pipeline.Fitted() {
		return LinearState{}, ErrNotFitted
	}
	state, ok := t.pipeline.ModelState().(LinearState)
	if !ok {
		return LinearState{}, errors.Errorf("model state is %T", t.pipeline.ModelState())
	}
	return LinearState{Intercept: state.Intercept, Weights: append([]float64(nil), state.Weights...)}, nil
}
