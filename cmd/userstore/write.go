package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/userstore/pkg/adapters/fs"
	"github.com/aretw0/userstore/pkg/core"
)

func newWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write <entry>",
		Short: "Write a record",
		Long: `Read a JSON record ({"name": "...", "age": N}) from stdin and store it under
<entry>, replacing any previous record.`,
		Args: entryArg("write"),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			buf, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read data from stdin: %w", err)
			}

			u, err := fs.NewJSONSerializer().Unmarshal(buf)
			if err != nil {
				return core.Reject(core.ErrInvalidData, "", "received invalid data: "+err.Error())
			}

			if err := svc.WriteUser(cmd.Context(), args[0], u); err != nil {
				return err
			}

			slog.Debug("record written", "entry", args[0])
			return nil
		},
	}
}
