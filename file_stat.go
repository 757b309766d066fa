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
	"os"

	"shanhu.io/misc/errcode"
)

// FileStat records the state of a resolved file when it was published.
type FileStat struct {
	Path         string
	Size         int64
	ModTimestamp int64
	Mode         uint32
}

// newFileStat stats p. Symlinks are followed.
func newFileStat(p string) (*FileStat, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errcode.NotFoundf("%s not found", p)
		}
		return nil, err
	}

	return &FileStat{
		Path:         p,
		Size:         info.Size(),
		ModTimestamp: info.ModTime().UnixNano(),
		Mode:         uint32(info.Mode()),
	}, nil
}

func sameFileStat(stat *FileStat) (bool, error) {
	cur, err := newFileStat(stat.Path)
	if err != nil {
		if errcode.IsNotFound(err) {
			return false, nil
		}
		return false, errcode.Annotate(err, "check current")
	}

	same := cur.Size == stat.Size
	same = same && cur.ModTimestamp == stat.ModTimestamp
	same = same && cur.Mode == stat.Mode

	return same, nil
}
