package golden

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV reads cases from r. name is only used to fill in Case.Pos and
// for error messages. Blank lines and lines starting with # are ignored.
func ReadCSV(r io.Reader, name string) ([]Case, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var cases []Case
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return cases, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		var xs [4]uint32
		for i, field := range rec {
			x, err := parseBits(field)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: field %d: %w", name, line, i+1, err)
			}
			xs[i] = x
		}
		cases = append(cases, Case{
			A:    xs[0],
			B:    xs[1],
			C:    xs[2],
			Want: xs[3],
			Pos:  fmt.Sprintf("%s:%d", name, line),
		})
	}
}

// WriteCSV writes cases to w, one per line. Fields are decimal unless hex
// is set. Names are dropped.
func WriteCSV(w io.Writer, cases []Case, hex bool) error {
	cw := csv.NewWriter(w)
	for _, c := range cases {
		rec := []string{
			formatBits(c.A, hex),
			formatBits(c.B, hex),
			formatBits(c.C, hex),
			formatBits(c.Want, hex),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
