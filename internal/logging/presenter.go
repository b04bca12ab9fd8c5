// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var errorPrefix = pterm.NewStyle(pterm.FgRed, pterm.Bold)

// Errorf reports an error to the user in a consistent way: a red "Error:"
// prefix followed by the masked message. Every per-command error in the shell
// funnels through here so that errors always look the same.
func Errorf(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "%s %s\n", errorPrefix.Sprint("Error:"), Mask(msg))
}

// PresentError reports err on w in the standard error format. A nil error
// prints nothing.
func PresentError(w io.Writer, err error) {
	if err == nil {
		return
	}
	Errorf(w, "%s", err)
}
