// Package main provides a small demonstration binary for the browsing core.
// It opens a page, navigates to the given URL, and prints the extracted
// insights and suggestions as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/browsecore/pkg/browser"
	"github.com/entrhq/browsecore/pkg/config"
	"github.com/entrhq/browsecore/pkg/core"
	"github.com/entrhq/browsecore/pkg/llm"
	"github.com/entrhq/browsecore/pkg/llm/openai"
	"github.com/entrhq/browsecore/pkg/logging"
)

const version = "0.1.0"

func main() {
	var (
		configFile  = flag.String("config", "", "path to YAML config file")
		apiKey      = flag.String("api-key", "", "LLM API key (or OPENAI_API_KEY env var); omit for heuristic-only insights")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("browsecore %s\n", version)
		return
	}

	url := flag.Arg(0)
	if url == "" {
		fmt.Fprintln(os.Stderr, "usage: browsecore [flags] <url>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(url, *configFile, *apiKey); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(url, configFile, apiKey string) error {
	defer logging.Close()

	settings, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var provider llm.Provider
	if apiKey != "" || os.Getenv("OPENAI_API_KEY") != "" {
		provider, err = openai.NewProvider(apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM provider: %w", err)
		}
	}

	driver, err := browser.NewPlaywrightDriver(browser.PlaywrightOptions{
		Headless:       settings.Headless,
		ViewportWidth:  settings.ViewportWidth,
		ViewportHeight: settings.ViewportHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}

	c := core.New(driver, settings, provider)
	defer c.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pageID, err := c.CreatePage(ctx)
	if err != nil {
		return err
	}
	if err := c.NavigateTo(ctx, pageID, url); err != nil {
		return err
	}

	insights, err := c.GetPageInsights(ctx, pageID)
	if err != nil {
		return err
	}
	suggestions, err := c.GetPageSuggestions(ctx, pageID)
	if err != nil {
		return err
	}

	out := struct {
		URL         string      `json:"url"`
		Insights    interface{} `json:"insights"`
		Suggestions interface{} `json:"suggestions"`
	}{URL: url, Insights: insights, Suggestions: suggestions}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
