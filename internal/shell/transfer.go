// Copyright (c) 2025 sqlsh authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"context"
	"fmt"

	"sqlsh/cli/internal/transfer"
)

func (s *Shell) doExport(ctx context.Context, table, path string) error {
	return transfer.Export(ctx, s.eng, table, path, s.out)
}

func (s *Shell) doImport(ctx context.Context, table, path string, newTableOnly bool) error {
	written, err := transfer.Import(ctx, s.eng, table, path, newTableOnly, s.out)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Imported %d row(s) into %s.\n", written, table)
	return nil
}
