package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Skufu/riskscope/internal/assessment"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitInput   = 1 // Unknown condition, missing or invalid measurement, empty selection
	ExitError   = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if isInputError(err) {
			os.Exit(ExitInput)
		}
		os.Exit(ExitError)
	}
}

func isInputError(err error) bool {
	var argErr *argError
	if errors.As(err, &argErr) {
		return true
	}
	return assessment.Kind(err) != assessment.KindInternal
}
