package cli

import (
	"context"
	"fmt"

	"github.com/jscott-dev/meetmebot/pkg/usecase/kb"
	"github.com/urfave/cli/v3"
)

func kbCommand() *cli.Command {
	var (
		cfg        config
		docsDir    string
		outputPath string
		upload     bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "docs-dir",
			Usage:       "Directory of source documents (.txt, .md)",
			Required:    true,
			Sources:     cli.EnvVars("MEETMEBOT_DOCS_DIR"),
			Destination: &docsDir,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Local path to write the embeddings JSON",
			Destination: &outputPath,
		},
		&cli.BoolFlag{
			Name:        "upload",
			Usage:       "Upload the embeddings JSON to the configured bucket",
			Destination: &upload,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, knowledgeFlags(&cfg)...)

	return &cli.Command{
		Name:  "kb",
		Usage: "Knowledge base maintenance",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Build the knowledge base from source documents",
				Flags: flags,
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg.setupLogger()

					gemini, err := cfg.newGemini(ctx)
					if err != nil {
						return err
					}

					storage, err := cfg.newStorage(ctx)
					if err != nil {
						return err
					}

					input := kb.GenerateInput{
						DocsDir:    docsDir,
						OutputPath: outputPath,
					}
					if upload {
						input.ObjectKey = cfg.knowledgeKey
					}

					records, err := kb.New(gemini, storage).Generate(ctx, input)
					if err != nil {
						return err
					}

					fmt.Fprintf(c.Root().Writer, "Generated %d knowledge records\n", len(records))
					return nil
				},
			},
		},
	}
}
