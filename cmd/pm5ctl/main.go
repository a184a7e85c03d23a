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

package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rowperf/pm5drive/pkg/run"
)

//
func main() {

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05"})

	root := &cobra.Command{
		Use:           "pm5ctl",
		Short:         "read, initialize and flash Concept2 PM5 log drives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		run.NewInfo().Command(),
		run.NewInit().Command(),
		run.NewList().Command(),
		run.NewExport().Command(),
		run.NewFlash().Command(),
		run.NewFetch().Command(),
		run.NewSearch().Command(),
		run.NewVersion().Command(),
	)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
