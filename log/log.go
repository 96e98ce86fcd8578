/*
 * NetIDE Shim - OpenFlow to NetIDE Core Relay
 *
 * Copyright (C) 2026 The NetIDE Shim Authors.
 *
 * Derived from Cherry - An OpenFlow Controller,
 * Copyright (C) 2015 Samjung Data Service, Inc.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

// Package log provides the go-logging backends of the shim.
package log

import (
	"fmt"
	slog "log/syslog"
	"os"
	"runtime"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const Format = "%{level}: %{shortpkg}.%{shortfunc}: %{message}"

type Syslog struct {
	writer *slog.Writer
}

// NewSyslog returns a backend writing to the local syslog daemon with prefix
// as the program tag.
func NewSyslog(prefix string) (*Syslog, error) {
	w, err := slog.New(slog.LOG_INFO|slog.LOG_DAEMON, prefix)
	if err != nil {
		return nil, err
	}

	return &Syslog{writer: w}, nil
}

func (r *Syslog) Log(level logging.Level, calldepth int, record *logging.Record) error {
	line := fmt.Sprintf("%v (TID=%v)", record.Formatted(calldepth+1), getGoRoutineID())
	switch level {
	case logging.CRITICAL:
		return r.writer.Crit(line)
	case logging.ERROR:
		return r.writer.Err(line)
	case logging.WARNING:
		return r.writer.Warning(line)
	case logging.NOTICE:
		return r.writer.Notice(line)
	case logging.INFO:
		return r.writer.Info(line)
	case logging.DEBUG:
		return r.writer.Debug(line)
	default:
		panic("unexpected log level")
	}
}

func getGoRoutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
}

// Setup installs the backend named by backend ("syslog" or "stderr") with
// the shim's log format at level.
func Setup(program, backend string, level logging.Level) (logging.LeveledBackend, error) {
	var b logging.Backend
	var err error
	switch strings.ToLower(backend) {
	case "", "syslog":
		b, err = NewSyslog(program)
		if err != nil {
			return nil, err
		}
	case "stderr":
		b = logging.NewLogBackend(os.Stderr, "", 0)
	default:
		return nil, errors.Errorf("unknown log backend: %v", backend)
	}

	format := Format
	if strings.ToLower(backend) == "stderr" {
		format = "%{time:15:04:05.000} " + Format
	}
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(b, logging.MustStringFormatter(format)))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)

	return leveled, nil
}
