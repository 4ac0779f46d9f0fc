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
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateReferenceCases(t *testing.T) {
	tab, err := ReadReferenceFile(filepath.Join("testdata", "reference_cases.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Cases) != 15 || len(tab.Skipped) != 0 {
		t.Fatalf("have %d cases and %d skipped rows", len(tab.Cases), len(tab.Skipped))
	}
	rep, err := Validate(tab, DefaultOptions(), DefaultTolerances())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := rep.Fprint(&buf); err != nil {
		t.Fatal(err)
	}
	if !rep.OK() {
		t.Errorf("reference cases failed:\n%s", buf.String())
	}
	if rep.Passed != 15 || rep.Failed != 0 || rep.NotConverged != 0 {
		t.Errorf("have %d passed, %d failed, %d not converged", rep.Passed, rep.Failed, rep.NotConverged)
	}
	if rep.MaxPHError > 1e-6 || rep.MeanPHError > rep.MaxPHError || rep.MaxPCO2Error > 1e-8 {
		t.Errorf("errors: %g %g %g", rep.MaxPHError, rep.MeanPHError, rep.MaxPCO2Error)
	}
	if rep.Outcomes[0].Case.Line != 5 {
		t.Errorf("first case line: have %d, want 5", rep.Outcomes[0].Case.Line)
	}
	if !strings.HasPrefix(buf.String(), "PASS line 5: pH 7.852628") {
		t.Errorf("have output:\n%s", buf.String())
	}
}

func TestValidateFailures(t *testing.T) {
	tab := &ReferenceTable{
		Cases: []ReferenceCase{
			{Sample: Sample{T: 25, S: 35, DIC: 0.0021, TA: 0.0023}, PH: 7.852627957358, PCO2: 6.719816353760e-04, Line: 1},
			{Sample: Sample{T: 25, S: 35, DIC: 0.0021, TA: 0.0023}, PH: 7.9, PCO2: 6.719816353760e-04, Line: 2},
			{Sample: Sample{T: 25, S: 35, DIC: 0.0021, TA: -1}, PH: 8, PCO2: 4e-4, Line: 3},
			{Sample: Sample{T: 25, S: -1, DIC: 0.0021, TA: 0.0023}, PH: 8, PCO2: 4e-4, Line: 4},
		},
		Skipped: []SkippedRow{{Line: 5, Reason: "expected 6 columns, got 2"}},
	}
	rep, err := Validate(tab, DefaultOptions(), DefaultTolerances())
	if err != nil {
		t.Fatal(err)
	}
	if rep.OK() {
		t.Error("report should not be OK")
	}
	if rep.Passed != 1 || rep.Failed != 3 || rep.NotConverged != 2 {
		t.Errorf("have %d passed, %d failed, %d not converged", rep.Passed, rep.Failed, rep.NotConverged)
	}
	if different(rep.MaxPHError, 7.9-7.852627957358, 1e-6) {
		t.Errorf("max pH error: have %g", rep.MaxPHError)
	}

	var buf bytes.Buffer
	if err := rep.Fprint(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"SKIP line 5: expected 6 columns, got 2",
		"PASS line 1:",
		"FAIL line 2: T=25 S=35 DIC=0.0021 TA=0.0023: pH 7.85262",
		"want 7.900000000",
		"FAIL line 3: T=25 S=35 DIC=0.0021 TA=-1: did not converge",
		"FAIL line 4: T=25 S=-1 DIC=0.0021 TA=0.0023: carbsys: precondition violated",
		"1 passed, 3 failed (2 not converged), 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestValidateEmpty(t *testing.T) {
	if _, err := Validate(&ReferenceTable{}, DefaultOptions(), DefaultTolerances()); err != ErrNoReferenceCases {
		t.Errorf("have error %v, want %v", err, ErrNoReferenceCases)
	}
}
