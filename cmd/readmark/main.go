package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/readmark/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "readmark",
		Usage:   "reading progress tracking and page summaries",
		Version: version.Get().String(),
		Action:  ServeAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP service (configured from READMARK_* variables)",
				Action: ServeAction,
			},
			{
				Name:      "summarize",
				Usage:     "summarize a text file, or stdin when no file is given",
				ArgsUsage: "[file]",
				Action:    SummarizeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "summarize", Usage: "summarize | rewrite | translate | template"},
					&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "bullet | short | long | key-takeaways"},
					&cli.StringFlag{Name: "target-language", Aliases: []string{"t"}, Usage: "target language for translate mode"},
					&cli.StringFlag{Name: "template", Usage: "prompt template, {{text}} is replaced by the input"},
					&cli.BoolFlag{Name: "offline", Usage: "skip model backends, extractive summary only"},
					&cli.BoolFlag{Name: "json", Usage: "print the full response as JSON"},
				},
			},
			{
				Name:      "extract",
				Usage:     "print the readable text of a URL or a saved HTML file",
				ArgsUsage: "<url|file>",
				Action:    ExtractAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-chars", Value: 4000, Usage: "truncate the text to this many characters"},
					&cli.BoolFlag{Name: "json", Usage: "print title and metadata as JSON"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ readmark: %v", err)
	}
}
