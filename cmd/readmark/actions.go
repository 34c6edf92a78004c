package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/readmark/internal/app"
	"github.com/MrSnakeDoc/readmark/internal/config"
	"github.com/MrSnakeDoc/readmark/internal/extract"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/summarize"
)

func ServeAction(c *cli.Context) error {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(c.Context, cfg, loggerClient)
	if err != nil {
		return err
	}
	return a.Run()
}

func SummarizeAction(c *cli.Context) error {
	text, err := readInput(c.Args().First())
	if err != nil {
		return err
	}

	mode, err := summarize.ParseMode(c.String("mode"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	style, err := summarize.ParseStyle(c.String("style"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	engine := app.NewSummarizer(c.Context, cfg, loggerClient, c.Bool("offline"))
	resp := engine.Summarize(c.Context, summarize.Request{
		Text:           text,
		Mode:           mode,
		Style:          style,
		TargetLanguage: c.String("target-language"),
		Template:       c.String("template"),
	})

	if c.Bool("json") {
		return printJSON(c.App.Writer, resp)
	}
	_, err = fmt.Fprintln(c.App.Writer, resp.Summary)
	return err
}

func ExtractAction(c *cli.Context) error {
	target := c.Args().First()
	if target == "" {
		return cli.Exit("a URL or HTML file is required", 2)
	}
	maxChars := c.Int("max-chars")

	var page *extract.FetchedPage
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
		defer cancel()

		fetched, err := extract.NewFetcher(extract.DefaultFetchTimeout, extract.AllowPrivateHosts()).Fetch(ctx, target, maxChars)
		if err != nil {
			return err
		}
		page = fetched
	} else {
		html, err := os.ReadFile(target)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", target, err)
		}
		snapshot := extract.Page{URL: "file://" + target, HTML: string(html)}
		page = &extract.FetchedPage{
			URL:     snapshot.URL,
			Title:   extract.CaptureProgress(snapshot).Title,
			Content: extract.ExtractContent(snapshot, maxChars),
		}
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, page)
	}
	_, err := fmt.Fprintln(c.App.Writer, page.Content)
	return err
}

// readInput reads path, or stdin when path is empty or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
