package cohort

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/consort/pkg/errors"
)

// ReadCSV decodes a dataset from CSV.
//
// The first record is the header naming each field; every following record
// holds one subject's integer values. Empty cells decode as 0 (absent).
//
// ReadCSV returns an INVALID_DATASET error if the CSV is malformed, a record
// has the wrong number of cells, or a cell is not an integer.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "malformed CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "missing header record")
	}

	header := records[0]
	columns := make([][]int, len(header))
	for i := range columns {
		columns[i] = make([]int, 0, len(records)-1)
	}

	for line, rec := range records[1:] {
		for i, cell := range rec {
			v := 0
			if cell != "" {
				v, err = strconv.Atoi(cell)
				if err != nil {
					return nil, errors.New(errors.ErrCodeInvalidDataset,
						"record %d field %q: not an integer: %q", line+2, header[i], cell)
				}
			}
			columns[i] = append(columns[i], v)
		}
	}

	d := New()
	for i, name := range header {
		if err := d.AddField(name, columns[i]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ReadCSVFile reads a dataset from a CSV file at path.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "dataset file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV encodes the dataset as CSV, header first, fields in insertion
// order.
func WriteCSV(d *Dataset, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Fields()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	fields := make([][]int, len(d.order))
	for i, name := range d.order {
		fields[i] = d.fields[name]
	}

	rec := make([]string, len(fields))
	for row := 0; row < d.n; row++ {
		for i, col := range fields {
			rec[i] = strconv.Itoa(col[row])
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", row+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
