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

package run

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//
const runnerHelpEpilogue = `
All settings can also be provided via environment variables, e.g.
PM5DRIVE_DEVICE for --device.`

// NewRunner creates the base for a command. Commands embed Runner, add
// their settings in their constructor, and read them back with
// ParseSettings at the start of their Run method.
func NewRunner(use, short, long, example, epilogue string,
	run func() error) *Runner {

	r := &Runner{viper: viper.New()}

	r.cmd = &cobra.Command{
		Use:           use,
		Short:         short,
		Long:          short + "\n" + long + epilogue,
		Example:       example,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	return r
}

//
type Runner struct {
	cmd   *cobra.Command
	viper *viper.Viper
	//
	settings []*setting
	//
	LogLevel string
}

//
type setting struct {
	target interface{}
	name   string
}

//
func (r *Runner) Command() *cobra.Command {
	return r.cmd
}

//
func (r *Runner) AddBaseSettings() {
	r.AddSetting(&r.LogLevel, "log-level", "l", "PM5DRIVE_LOG_LEVEL", "info",
		"log level (trace, debug, info, warn, error)", false)
}

/*
	AddSetting registers a command setting backed by a flag, with env
	as optional environment variable override and def as optional
	default. target must point to a string, int or bool; the value is
	assigned during ParseSettings, with precedence flag over
	environment over default.
*/
func (r *Runner) AddSetting(target interface{}, name, shorthand, env string,
	def interface{}, help string, required bool) {

	flags := r.flags()

	switch target.(type) {
	case *string:
		d, _ := def.(string)
		flags.StringP(name, shorthand, d, help)
	case *int:
		d, _ := def.(int)
		flags.IntP(name, shorthand, d, help)
	case *bool:
		d, _ := def.(bool)
		flags.BoolP(name, shorthand, d, help)
	default:
		log.Fatalf("unsupported setting type for %s", name)
	}

	r.viper.BindPFlag(name, flags.Lookup(name))
	if env != "" {
		r.viper.BindEnv(name, env)
	}
	if required {
		r.cmd.MarkFlagRequired(name)
	}

	r.settings = append(r.settings, &setting{target: target, name: name})
}

//
func (r *Runner) flags() *pflag.FlagSet {
	return r.cmd.Flags()
}

//
func (r *Runner) ParseSettings() {

	r.viper.BindPFlags(r.flags())

	for _, s := range r.settings {
		switch t := s.target.(type) {
		case *string:
			*t = r.viper.GetString(s.name)
		case *int:
			*t = r.viper.GetInt(s.name)
		case *bool:
			*t = r.viper.GetBool(s.name)
		}
	}

	if r.LogLevel != "" {
		if lvl, err := log.ParseLevel(r.LogLevel); err == nil {
			log.SetLevel(lvl)
		} else {
			log.Warnf("invalid log level '%s'", r.LogLevel)
		}
	}
}
