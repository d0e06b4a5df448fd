// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	gotime "time"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

const (
	secsPerDay = 86400
	dateLayout = "2006-01-02"
)

func ParseDate(s string) (Date, error) {
	t, err := gotime.ParseInLocation(dateLayout, s, gotime.UTC)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtxf("invalid date value %s", s)
	}
	return Date(t.Unix() / secsPerDay), nil
}

func DateFromCalendar(year int32, month, day uint8) Date {
	t := gotime.Date(int(year), gotime.Month(month), int(day), 0, 0, 0, 0, gotime.UTC)
	return Date(t.Unix() / secsPerDay)
}

func (d Date) String() string {
	return gotime.Unix(int64(d)*secsPerDay, 0).UTC().Format(dateLayout)
}

// ToTimestamp returns midnight UTC of d.
func (d Date) ToTimestamp() Timestamp {
	return Timestamp(int64(d) * secsPerDay * microSecsPerSec)
}
