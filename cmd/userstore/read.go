package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/userstore/pkg/adapters/fs"
)

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <entry>",
		Short: "Read a record",
		Long:  `Read the record stored under <entry> and print it as JSON on stdout.`,
		Args:  entryArg("read"),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			u, err := svc.ReadUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := fs.NewJSONSerializer().Marshal(u)
			if err != nil {
				return fmt.Errorf("failed to serialize read data: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
