// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"io"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tarstars/taxi_fare_model/golang/fare_model/config"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/data"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/flow"
	"github.com/tarstars/taxi_fare_model/golang/fare_model/fml"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	trainers          = make(map[uint64]*fml.Trainer)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func silenceLogs() {
	logSilenceOnce.Do(func() {
		log.Logger = zerolog.New(io.Discard)
	})
}

func storeTrainer(t *fml.Trainer) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	trainers[handle] = t
	nextHandle++
	return handle
}

func fetchTrainer(handle uint64) (*fml.Trainer, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	trainer, ok := trainers[handle]
	if !ok {
		return nil, errors.New("invalid model handle")
	}
	return trainer, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(trainers, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length <= 0 {
		return nil, errors.New("rows must be positive")
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length <= 0 {
		return nil, errors.New("rows must be positive")
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

//buildFrame assembles trips given as unix seconds and four coordinate arrays.
func buildFrame(pickupUnix *C.longlong, pickupLon, pickupLat, dropoffLon, dropoffLat *C.double, rows C.int) (*fml.Frame, error) {
	n := int(rows)
	if n <= 0 {
		return nil, errors.New("rows must be positive")
	}
	if pickupUnix == nil {
		return nil, errors.New("null pointer for pickup times")
	}
	seconds := unsafe.Slice((*int64)(unsafe.Pointer(pickupUnix)), n)
	columns := make([][]float64, 0, 4)
	for _, ptr := range []*C.double{pickupLon, pickupLat, dropoffLon, dropoffLat} {
		values, err := sliceFromPtr(ptr, n)
		if err != nil {
			return nil, err
		}
		columns = append(columns, values)
	}
	return data.TripFrame(seconds, columns[0], columns[1], columns[2], columns[3])
}

func trainerOptions(timezone *C.char, regLambda C.double) (fml.TrainerOptions, error) {
	name := ""
	if timezone != nil {
		name = C.GoString(timezone)
	}
	return fml.NewTrainerOptions(name, float64(regLambda))
}

//export TrainModel
func TrainModel(
	pickupUnix *C.longlong,
	pickupLon *C.double,
	pickupLat *C.double,
	dropoffLon *C.double,
	dropoffLat *C.double,
	farePtr *C.double,
	rows C.int,
	timezone *C.char,
	regLambda C.double,
) C.ulonglong {
	setLastError(nil)
	silenceLogs()

	frame, err := buildFrame(pickupUnix, pickupLon, pickupLat, dropoffLon, dropoffLat, rows)
	if err != nil {
		setLastError(err)
		return 0
	}
	fares, err := copyFloatSlice(farePtr, int(rows))
	if err != nil {
		setLastError(err)
		return 0
	}
	opts, err := trainerOptions(timezone, regLambda)
	if err != nil {
		setLastError(err)
		return 0
	}

	trainer := fml.NewTrainer(frame, fares, opts)
	if err := trainer.Run(); err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeTrainer(trainer))
}

//export TrainFromConfig
func TrainFromConfig(configPath *C.char, rmsePtr *C.double) C.ulonglong {
	setLastError(nil)
	silenceLogs()

	cfg, err := config.Load(C.GoString(configPath))
	if err != nil {
		setLastError(err)
		return 0
	}
	result, err := flow.New(cfg, io.Discard).Run()
	if err != nil {
		setLastError(err)
		return 0
	}
	if rmsePtr != nil {
		*rmsePtr = C.double(result.Rmse)
	}
	return C.ulonglong(storeTrainer(result.Trainer))
}

//export Predict
func Predict(
	handle C.ulonglong,
	pickupUnix *C.longlong,
	pickupLon *C.double,
	pickupLat *C.double,
	dropoffLon *C.double,
	dropoffLat *C.double,
	rows C.int,
	outputPtr *C.double,
) C.int {
	setLastError(nil)
	trainer, err := fetchTrainer(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	frame, err := buildFrame(pickupUnix, pickupLon, pickupLat, dropoffLon, dropoffLat, rows)
	if err != nil {
		setLastError(err)
		return 2
	}
	prediction, err := trainer.Predict(frame)
	if err != nil {
		setLastError(err)
		return 3
	}
	outSlice, err := sliceFromPtr(outputPtr, int(rows))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(outSlice, prediction)
	return 0
}

//export Evaluate
func Evaluate(
	handle C.ulonglong,
	pickupUnix *C.longlong,
	pickupLon *C.double,
	pickupLat *C.double,
	dropoffLon *C.double,
	dropoffLat *C.double,
	farePtr *C.double,
	rows C.int,
	rmsePtr *C.double,
) C.int {
	setLastError(nil)
	trainer, err := fetchTrainer(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	frame, err := buildFrame(pickupUnix, pickupLon, pickupLat, dropoffLon, dropoffLat, rows)
	if err != nil {
		setLastError(err)
		return 2
	}
	fares, err := copyFloatSlice(farePtr, int(rows))
	if err != nil {
		setLastError(err)
		return 3
	}
	rmse, err := trainer.Evaluate(frame, fares)
	if err != nil {
		setLastError(err)
		return 4
	}
	if rmsePtr == nil {
		setLastError(errors.New("null pointer for rmse"))
		return 5
	}
	*rmsePtr = C.double(rmse)
	return 0
}

//export RenderPipeline
func RenderPipeline(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	trainer, err := fetchTrainer(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goPath := C.GoString(path)
	if goPath == "" {
		goPath = "pipeline.svg"
	}
	if err := trainer.Pipeline().RenderGraph(goPath); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
