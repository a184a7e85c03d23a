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
	"fmt"
	"time"
)

// workout type tags as stored in the log
type WorkoutType byte

//
const (
	FreeRow          WorkoutType = 0x01
	SingleDistance   WorkoutType = 0x03
	SingleTime       WorkoutType = 0x05
	TimeInterval     WorkoutType = 0x06
	DistanceInterval WorkoutType = 0x07
	VariableInterval WorkoutType = 0x08
	SingleCalorie    WorkoutType = 0x0a
)

//
func ParseWorkoutType(tag byte) (WorkoutType, error) {
	switch t := WorkoutType(tag); t {
	case FreeRow, SingleDistance, SingleTime, TimeInterval,
		DistanceInterval, VariableInterval, SingleCalorie:
		return t, nil
	}
	return 0, fmt.Errorf("unknown workout type tag 0x%02x", tag)
}

//
func (t WorkoutType) IsInterval() bool {
	switch t {
	case TimeInterval, DistanceInterval, VariableInterval:
		return true
	}
	return false
}

//
func (t WorkoutType) String() string {
	switch t {
	case FreeRow:
		return "Free Row"
	case SingleDistance:
		return "Distance"
	case SingleTime:
		return "Time"
	case TimeInterval:
		return "Time Interval"
	case DistanceInterval:
		return "Distance Interval"
	case VariableInterval:
		return "Variable Interval"
	case SingleCalorie:
		return "Calories"
	}
	return fmt.Sprintf("Unknown (0x%02x)", byte(t))
}

/*
	Entry is one completed workout as stored in a slot of the log table.
	ID is the slot index; it is not part of the persisted record. For
	non-interval workouts Intervals holds the splits, for interval
	workouts the executed intervals, in execution order.
*/
type Entry struct {
	ID            int          `json:"id"`
	Type          WorkoutType  `json:"type"`
	Serial        int64        `json:"serial"`
	StartTime     time.Time    `json:"start_time"`
	UserID        int          `json:"user_id"`
	RecordID      byte         `json:"record_id"`
	StrokeRate    int          `json:"stroke_rate"`
	Calories      int          `json:"calories"`
	TotalDuration time.Duration `json:"total_duration"`
	TotalDistance int          `json:"total_distance"`
	TotalRest     time.Duration `json:"total_rest"`
	Intervals     []Interval   `json:"intervals"`
}

// CorruptEntry reports a slot whose contents failed to decode. The raw
// bytes are preserved so nothing is lost by continuing a scan.
type CorruptEntry struct {
	ID     int
	Reason error
	Raw    []byte
}

//
func (c *CorruptEntry) String() string {
	return fmt.Sprintf("slot %d corrupt: %v", c.ID, c.Reason)
}
