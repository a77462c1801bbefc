package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, knowledgeFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the portfolio assistant from the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.setupLogger()

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			chatUC, _, err := cfg.newChatUseCase(ctx, repo)
			if err != nil {
				return err
			}

			rl, err := readline.New("You> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize terminal")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				if line == "exit" {
					break
				}
				if line == "" {
					continue
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()
				reply := chatUC.HandleMessage(ctx, line)
				sp.Stop()

				fmt.Fprintf(c.Root().Writer, "Bot> %s\n", reply)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
