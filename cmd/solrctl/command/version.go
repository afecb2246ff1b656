package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and mode of the solr node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := a.connection(cmd)
			if err != nil {
				return err
			}
			info, err := conn.SystemInfo(cmd.Context())
			if err != nil {
				return err
			}
			printLine(cmd, fmt.Sprintf("solr %s (%s) at %s", info.Version, info.Mode, conn.URL()))
			return nil
		},
	}
}
