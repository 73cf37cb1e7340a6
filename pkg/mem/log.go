// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mem

import (
	stdlog "log"
)

// Logger is the logging interface of this package. The consumer of
// the library decides where log output goes; by default nothing is
// logged.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type logger struct {
	*stdlog.Logger
}

const logPrefix = "unwindmem "

var log Logger = &logger{Logger: nil}
var logDebugMessages bool = false

// SetLogger directs the package's log output to l.
func SetLogger(l *stdlog.Logger) {
	log = &logger{Logger: l}
}

// SetLogDebug enables or disables debug messages.
func SetLogDebug(debug bool) {
	logDebugMessages = debug
}

func (l *logger) Debugf(format string, v ...interface{}) {
	if l.Logger == nil || !logDebugMessages {
		return
	}
	l.Printf(logPrefix+"DEBUG: "+format, v...)
}

func (l *logger) Infof(format string, v ...interface{}) {
	if l.Logger == nil {
		return
	}
	l.Printf(logPrefix+"INFO: "+format, v...)
}

func (l *logger) Warnf(format string, v ...interface{}) {
	if l.Logger == nil {
		return
	}
	l.Printf(logPrefix+"WARN: "+format, v...)
}

func (l *logger) Errorf(format string, v ...interface{}) {
	if l.Logger == nil {
		return
	}
	l.Printf(logPrefix+"ERROR: "+format, v...)
}
