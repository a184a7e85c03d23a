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

package logbook

import (
	"math"
	"time"
)

// Watts returns the average power of the workout, using the standard
// Concept2 pace to watts conversion.
func (e *Entry) Watts() float64 {
	if e.TotalDistance == 0 || e.TotalDuration == 0 {
		return 0
	}
	pace := e.TotalDuration.Seconds() / float64(e.TotalDistance)
	return 2.8 / math.Pow(pace, 3)
}

// CalPerHour returns the calorie burn rate for a 175 lb rower.
func (e *Entry) CalPerHour() float64 {
	return e.Watts()*3.44 + 300.0
}

// CalPerHourWeighted corrects the burn rate for body weight in kg.
func (e *Entry) CalPerHourWeighted(weight float64) float64 {
	return e.Watts()*3.44 + 1.714*2.2046*weight
}

// Pace returns the average duration per 500 m split.
func (e *Entry) Pace() time.Duration {
	splits := e.TotalDistance / 500
	if splits < 1 {
		splits = 1
	}
	return e.TotalDuration / time.Duration(splits)
}

// AvgHeartRate averages the heart rate over all intervals. It reports
// false when any interval carries no reading, since a partial average
// would be misleading.
func (e *Entry) AvgHeartRate() (int, bool) {

	if len(e.Intervals) == 0 {
		return 0, false
	}

	sum, n := 0, 0
	for _, iv := range e.Intervals {
		hr := 0
		switch s := iv.(type) {
		case *TimeSpan:
			hr = s.HeartRate
		case *DistanceSpan:
			hr = s.HeartRate
		case *RestSpan:
			hr = s.HeartRate
		default:
			return 0, false
		}
		if hr == 0 {
			return 0, false
		}
		sum += hr
		n++
	}

	return sum / n, true
}
