// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
)

// Singleton log writer. Writes to the configured output, and optionally to a file.
// Does not add prefixes, or force newlines. Silent until an output is set,
// as the library runs inside other programs.

var logMu     sync.Mutex
var logOut    io.Writer = io.Discard

// The optional additional file to log into
var logFile   *bufio.Writer
var logFileOS *os.File

// Sets the primary log output, e.g. os.Stdout. nil disables it
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	if w==nil { w=io.Discard }
	logOut=w
}

// Enables logging to file
func LogAlsoToFile(fileName string) (err error) {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile!=nil {
		err=logFile.Flush()
		if err!=nil { return err }
		err=logFileOS.Close()
		if err!=nil { return err }
		logFile, logFileOS=nil, nil
	}
	logFileOS, err = os.OpenFile(fileName, os.O_CREATE | os.O_TRUNC | os.O_WRONLY, 0666)
	if err!=nil { return err }
	logFile=bufio.NewWriter(logFileOS)
	return nil
}

func LogPrintf(format string, args ...interface{}) (n int, err error) {
	return fmt.Fprintf(LogWriter{}, format, args...)
}

// Flushes and syncs the log file, if any
func LogSync() {
	logMu.Lock()
	defer logMu.Unlock()
	if logFile==nil { return }
	logFile.Flush()
	logFileOS.Sync()
}

// An io.Writer onto the singleton log, for handing to execution contexts
type LogWriter struct{}

func (LogWriter) Write(p []byte) (n int, err error) {
	logMu.Lock()
	defer logMu.Unlock()
	n, err=logOut.Write(p)
	if err!=nil || logFile==nil { return n, err }
	return logFile.Write(p)
}
