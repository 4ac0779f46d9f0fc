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

// Command carbsys is the command-line interface for the CarbSys seawater
// carbonate system solver.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/carbsys/carbsysutil"
)

func main() {
	if err := carbsysutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
