package cli

import (
	"os"

	"github.com/hbjs97/cprof/internal/logging"
	"github.com/hbjs97/cprof/internal/mcpserver"
	"github.com/spf13/cobra"
)

func (a *App) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "stdio MCP 서버로 작업을 노출한다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.build()
			if err != nil {
				return err
			}
			in := a.Stdin
			if in == nil {
				in = os.Stdin
			}
			log := logging.Component("cli")
			log.Info().Str("server", mcpserver.ServerName).Msg("stdio 서버 시작")
			return mcpserver.Serve(cmd.Context(), mcpserver.New(c.manager, Version), in, cmd.OutOrStdout())
		},
	}
}
