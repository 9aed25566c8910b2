package data

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
)

//CSVSource reads trips from a csv file with a header line.
//NRows limits the number of rows, 0 reads everything.
type CSVSource struct {
	Path  string
	NRows int
}

func (s CSVSource) String() string {
	return fmt.Sprintf("csv:%s", s.Path)
}

//GetData reads the file with fixed column types.
func (s CSVSource) GetData() (Dataset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Dataset{}, errors.Wrap(err, "open csv")
	}
	defer func() { _ = f.Close() }()

	ds := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(ColumnTypes),
		dataframe.NaNValues([]string{"", "NA", "NaN", "nan"}),
	)
	if ds.Err != nil {
		return Dataset{}, errors.Wrapf(ds.Err, "parse %s", s.Path)
	}
	return head(ds, s.NRows), nil
}

//WriteCSV stores the dataset with a header line.
func WriteCSV(ds Dataset, path string) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()
	return errors.Wrapf(ds.WriteCSV(dst), "write %s", path)
}
