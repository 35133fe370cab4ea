package utils

import (
	"fmt"
	"os"
)

var _, enableDebug = os.LookupEnv("SQLPRIME_DEBUG")

// DPrint writes a debug trace to stderr when SQLPRIME_DEBUG is set.
func DPrint(format string, a ...any) {
	if !enableDebug {
		return
	}
	fmt.Fprintf(os.Stderr, "\033[0;31mDEBUG:\033[0m ")
	fmt.Fprintf(os.Stderr, format, a...)
}
