package main

import (
	"fmt"
	"os"

	"jangat/internal/cli"
	perr "jangat/internal/platform/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if perr.IsCode(err, perr.ErrorCodeValidation) || perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
