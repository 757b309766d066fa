// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pathset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const digestPrefix = "sha256:"

// digestFiles hashes a set name and the stats of its files, one line per
// file, in list order.
func digestFiles(name string, files []*FileStat) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n", name, len(files))
	for _, f := range files {
		fmt.Fprintf(
			h, "%q %d %d %o\n", f.Path, f.Size, f.ModTimestamp, f.Mode,
		)
	}
	return digestPrefix + hex.EncodeToString(h.Sum(nil))
}
