/*
   pm5drive - Concept2 PM5 flash drive toolkit
   Copyright (c) 2026, the pm5drive authors

   This file is part of pm5drive.

   pm5drive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   pm5drive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with pm5drive. If not, see <http://www.gnu.org/licenses/>.
*/

package util

import (
	"fmt"
	"time"
)

// FormatDuration renders a workout duration the way the monitor
// displays it: m:ss.t, with an hour part only when needed.
func FormatDuration(d time.Duration) string {

	secs := int64(d.Seconds())
	tenth := (d.Milliseconds() % 1000) / 100

	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d.%d",
			secs/3600, (secs/60)%60, secs%60, tenth)
	}
	return fmt.Sprintf("%d:%02d.%d", secs/60, secs%60, tenth)
}
