package sim

import (
	"fmt"
	"io"
)

// logWriter is the destination for Logf output; nil means stdout.
// Grounded on game/logging.go's package-level SetLogWriter/Logf pair.
var logWriter io.Writer

// SetLogWriter redirects Logf output, e.g. to a file opened by the CLI
// when -logfile is given.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted line to the configured log destination.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}
