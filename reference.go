/*
Copyright © 2026 the CarbSys authors.
This file is part of CarbSys.

CarbSys is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CarbSys is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CarbSys.  If not, see <http://www.gnu.org/licenses/>.
*/

package carbsys

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"
)

// ReferenceCase is one row of a reference table: a surface sample and its
// expected total scale pH and pCO2 [atm].
type ReferenceCase struct {
	Sample
	PH, PCO2 float64

	// Line is the line (CSV) or row (spreadsheet) number the case was
	// read from, starting at 1.
	Line int
}

// SkippedRow is a reference table row that could not be used.
type SkippedRow struct {
	Line   int
	Reason string
}

// ReferenceTable holds the usable and skipped rows of a reference table.
type ReferenceTable struct {
	Cases   []ReferenceCase
	Skipped []SkippedRow
}

// referenceColumns is the number of columns in a reference table:
// T, S, DIC, TA, expected pH and expected pCO2.
const referenceColumns = 6

// add parses one row of a reference table. A first row that does not
// start with a number is taken to be a header.
func (t *ReferenceTable) add(fields []string, line int, first bool) {
	if len(fields) != referenceColumns {
		t.Skipped = append(t.Skipped, SkippedRow{Line: line,
			Reason: fmt.Sprintf("expected %d columns, got %d", referenceColumns, len(fields))})
		return
	}
	var v [referenceColumns]float64
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			if first && i == 0 {
				return
			}
			t.Skipped = append(t.Skipped, SkippedRow{Line: line,
				Reason: fmt.Sprintf("column %d: %v", i+1, err)})
			return
		}
	}
	t.Cases = append(t.Cases, ReferenceCase{
		Sample: Sample{T: v[0], S: v[1], DIC: v[2], TA: v[3]},
		PH:     v[4],
		PCO2:   v[5],
		Line:   line,
	})
}

// ReadReferenceCSV reads a reference table from comma separated values
// with columns T (°C), S (PSU), DIC (mol/kg), TA (mol/kg), expected total
// scale pH and expected pCO2 (atm). Lines starting with '#' are comments
// and an optional header row is ignored. Rows that cannot be parsed are
// recorded in Skipped.
func ReadReferenceCSV(r io.Reader) (*ReferenceTable, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	t := new(ReferenceTable)
	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("carbsys: reading reference table: %v", err)
		}
		line, _ := cr.FieldPos(0)
		t.add(rec, line, first)
	}
	return t, nil
}

// ReadReferenceXLSX reads a reference table from the first sheet of a
// Microsoft Excel workbook, with the same columns as ReadReferenceCSV.
// Empty rows and rows whose first cell starts with '#' are ignored.
func ReadReferenceXLSX(fileName string) (*ReferenceTable, error) {
	f, err := xlsx.OpenFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("carbsys: opening reference workbook: %v", err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("carbsys: reference workbook %s has no sheets", fileName)
	}
	t := new(ReferenceTable)
	first := true
	for i, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		var fields []string
		for _, c := range row.Cells {
			fields = append(fields, strings.TrimSpace(c.Value))
		}
		// Trailing empty cells are not part of the table.
		for len(fields) > 0 && fields[len(fields)-1] == "" {
			fields = fields[:len(fields)-1]
		}
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		t.add(fields, i+1, first)
		first = false
	}
	return t, nil
}

// ReadReferenceFile reads a reference table from a .xlsx workbook or, for
// any other extension, a CSV file.
func ReadReferenceFile(fileName string) (*ReferenceTable, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return ReadReferenceXLSX(fileName)
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("carbsys: opening reference table: %v", err)
	}
	defer f.Close()
	return ReadReferenceCSV(f)
}
