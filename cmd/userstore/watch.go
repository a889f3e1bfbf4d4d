package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	lcadapter "github.com/aretw0/userstore/pkg/adapters/lifecycle"
)

func newWatchCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch [pattern]",
		Short: "Stream record changes",
		Long:  `Print create, modify and delete events for entries matching an optional glob pattern until interrupted.`,
		Args:  patternArg("watch"),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			src := lcadapter.NewSource(svc, firstArg(args))
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			encoder := json.NewEncoder(out)
			for {
				select {
				case <-ctx.Done():
					return nil
				case e, ok := <-src.Events():
					if !ok {
						return nil
					}
					if asJSON {
						if err := encoder.Encode(e); err != nil {
							return fmt.Errorf("failed to encode event: %w", err)
						}
						continue
					}
					fmt.Fprintln(out, e)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output events as JSON lines")
	return cmd
}
