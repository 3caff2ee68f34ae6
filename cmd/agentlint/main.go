package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // All evaluations passed
	ExitEvalFailed = 1 // One or more evaluations failed
	ExitError      = 2 // Configuration or runtime error
)

// EvalFailureError indicates that evaluation ran to completion but one or
// more sessions violated the configured severity threshold.
type EvalFailureError struct {
	Message string
}

func (e *EvalFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var evalErr *EvalFailureError
		if errors.As(err, &evalErr) {
			os.Exit(ExitEvalFailed)
		}

		os.Exit(ExitError)
	}
}
