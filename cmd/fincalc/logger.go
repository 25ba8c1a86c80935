package main

import (
	"io"
	"log"
)

// cliLogger prints engine messages with level prefixes. Debug and info
// lines only appear with --debug.
type cliLogger struct {
	l     *log.Logger
	debug bool
}

func newCLILogger(w io.Writer, debug bool) *cliLogger {
	return &cliLogger{l: log.New(w, "", log.LstdFlags), debug: debug}
}

func (c *cliLogger) Debugf(format string, args ...any) {
	if c.debug {
		c.l.Printf("[DEBUG] "+format, args...)
	}
}

func (c *cliLogger) Infof(format string, args ...any) {
	if c.debug {
		c.l.Printf("[INFO] "+format, args...)
	}
}

func (c *cliLogger) Warnf(format string, args ...any)  { c.l.Printf("[WARN] "+format, args...) }
func (c *cliLogger) Errorf(format string, args ...any) { c.l.Printf("[ERROR] "+format, args...) }
