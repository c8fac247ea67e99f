package internal

import (
	"log"
	"os"
)

// InitLogging routes loader progress to stderr so command output on
// stdout stays clean.
func InitLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
