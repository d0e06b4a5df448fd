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
	"fmt"
	"strings"
	gotime "time"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

const (
	microSecsPerSec = 1000000
	timestampLayout = "2006-01-02 15:04:05"
)

// ParseTimestamp accepts "YYYY-MM-DD", "YYYY-MM-DD hh:mm:ss" and an optional
// fraction of up to six digits. Values are taken as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(dateLayout) {
		d, err := ParseDate(s)
		if err != nil {
			return 0, moerr.NewInvalidInputNoCtxf("invalid timestamp value %s", s)
		}
		return d.ToTimestamp(), nil
	}
	s = strings.Replace(s, "T", " ", 1)
	t, err := gotime.ParseInLocation("2006-01-02 15:04:05.999999", s, gotime.UTC)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtxf("invalid timestamp value %s", s)
	}
	return Timestamp(t.UnixMicro()), nil
}

func TimestampFromUnixMicro(us int64) Timestamp {
	return Timestamp(us)
}

func (ts Timestamp) ToGoTime() gotime.Time {
	return gotime.UnixMicro(int64(ts)).UTC()
}

func (ts Timestamp) String() string {
	t := ts.ToGoTime()
	if us := t.Nanosecond() / 1000; us != 0 {
		return fmt.Sprintf("%s.%06d", t.Format(timestampLayout), us)
	}
	return t.Format(timestampLayout)
}

func (ts Timestamp) ToDate() Date {
	us := int64(ts)
	days := us / (secsPerDay * microSecsPerSec)
	if us < 0 && us%(secsPerDay*microSecsPerSec) != 0 {
		days--
	}
	return Date(days)
}
