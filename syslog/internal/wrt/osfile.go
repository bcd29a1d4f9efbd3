//go:build !cwlog
// +build !cwlog

package wrt

import (
	"io"
	"log"
)

// New returns the writer of the supporting file logger ie. the log file or stderr.
func New(f *log.Logger) io.Writer {
	return f.Writer()
}

func Start(f *log.Logger) error {
	return nil
}

func Stop() {}
