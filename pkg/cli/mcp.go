package cli

import (
	"context"

	mcpserver "github.com/jscott-dev/meetmebot/pkg/controller/mcp"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, knowledgeFlags(&cfg)...)

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the portfolio tools over MCP stdio",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			_, registry, err := cfg.newChatUseCase(ctx, repo)
			if err != nil {
				return err
			}

			srv, err := mcpserver.New(registry)
			if err != nil {
				return err
			}

			return srv.Run(ctx)
		},
	}
}
