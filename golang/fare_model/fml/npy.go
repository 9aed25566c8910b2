package fml

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

//DumpNpy writes a matrix to a numpy .npy file
func DumpNpy(fileName string, m mat.Matrix) (err error) {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "create %s", fileName)
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()
	return errors.Wrapf(npyio.Write(dst, m), "write %s", fileName)
}

//DumpVector writes values as a column vector
func DumpVector(fileName string, values []float64) error {
	if len(values) == 0 {
		return errors.Wrapf(ErrInput, "nothing to write to %s", fileName)
	}
	return DumpNpy(fileName, mat.NewDense(len(values), 1, values))
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (*mat.Dense, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", fileName)
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", fileName)
	}
	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, errors.Wrapf(err, "read %s", fileName)
	}
	return denseMat, nil
}
