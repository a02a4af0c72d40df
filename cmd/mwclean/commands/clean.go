package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shlomif/mwclean/internal/logger"
	"github.com/shlomif/mwclean/internal/output"
	"github.com/shlomif/mwclean/pkg/cleaner/mediawiki"
	"github.com/shlomif/mwclean/pkg/fetcher"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file|url|page-title]",
	Short: "Clean one wiki page",
	Long: `Clean a wiki page from a file, a URL, or stdin.

With --api, the argument is a page title and the wiki's parse API is asked
for clean HTML first; local cleanup only runs if the API is unavailable.
Without an argument, the page is read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()

	// Input
	flags.String("api", "", "api.php endpoint to try before local cleanup")

	// Rules
	flags.Bool("content-only", false, "only strip edit sections and promote heading anchors")
	flags.StringSlice("remove", nil, "extra CSS selectors to remove")
	flags.StringSlice("keep", nil, "CSS selectors to keep (overrides --remove)")

	// Fetching
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "User-Agent header for fetches")

	// Output
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("report", "", "write a cleaning report to stderr: text, json, yaml")
}

func runClean(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reportFormat, _ := cmd.Flags().GetString("report")
	var format output.Format
	if reportFormat != "" {
		var err error
		format, err = output.ParseFormat(reportFormat)
		if err != nil {
			return err
		}
	}

	cfg, err := buildCleanerConfig(cmd)
	if err != nil {
		return err
	}

	source := "stdin"
	if len(args) > 0 {
		source = args[0]
	}

	html, origin, err := acquire(ctx, cmd, args)
	if err != nil {
		logger.Error("failed to acquire page", "source", source, "error", err)
		return err
	}
	if len(html) == 0 {
		return fmt.Errorf("empty input from %s", source)
	}

	report := output.Report{Source: source, Origin: origin}
	content := html

	// Parse-API output is already clean; everything else goes through the
	// cleaner.
	if origin != "parse-api" {
		cl := mediawiki.New(cfg)
		result := cl.CleanWithStats(html)
		content = result.Content
		report.Stats = result.Stats
		report.Warnings = result.Warnings

		for _, w := range result.Warnings {
			logger.Warn("cleaning warning", "phase", w.Phase, "message", w.Message)
		}
	}

	if err := writeContent(cmd, content); err != nil {
		return err
	}

	if reportFormat != "" {
		if err := output.Write(os.Stderr, format, report); err != nil {
			return err
		}
	}
	return nil
}

// acquire resolves the input source: parse API, URL, file, or stdin.
// It returns the page HTML and where it came from ("parse-api", "fetch",
// "file", "stdin").
func acquire(ctx context.Context, cmd *cobra.Command, args []string) (string, string, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	opts := fetcher.Options{Timeout: timeout, UserAgent: userAgent}

	apiURL, _ := cmd.Flags().GetString("api")
	if apiURL != "" {
		if len(args) == 0 {
			return "", "", fmt.Errorf("--api requires a page title argument")
		}
		page := args[0]

		rf := fetcher.NewRender(apiURL)
		defer func() { _ = rf.Close() }()

		content, err := rf.Fetch(ctx, page, opts)
		if err == nil {
			return content.HTML, "parse-api", nil
		}
		if !errors.Is(err, fetcher.ErrRenderUnavailable) {
			return "", "", err
		}

		// The API could not serve the page; fetch the skinned page and
		// clean it locally.
		pageURL := fallbackPageURL(apiURL, page)
		logger.Warn("parse API unavailable, falling back to skinned page",
			"api", apiURL, "url", pageURL, "error", err)

		sf := fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout, UserAgent: userAgent})
		defer func() { _ = sf.Close() }()
		content, err = sf.Fetch(ctx, pageURL, opts)
		if err != nil {
			return "", "", err
		}
		return content.HTML, "fetch", nil
	}

	if len(args) > 0 {
		arg := args[0]
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			sf := fetcher.NewStatic(fetcher.StaticConfig{Timeout: timeout, UserAgent: userAgent})
			defer func() { _ = sf.Close() }()
			content, err := sf.Fetch(ctx, arg, opts)
			if err != nil {
				return "", "", err
			}
			return content.HTML, "fetch", nil
		}

		data, err := os.ReadFile(arg)
		if err != nil {
			return "", "", fmt.Errorf("reading file %s: %w", arg, err)
		}
		return string(data), "file", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "stdin", nil
}

// fallbackPageURL derives the skinned page URL from the api.php endpoint,
// e.g. https://w.org/w/api.php + "Main Page" -> https://w.org/w/index.php?title=Main+Page.
func fallbackPageURL(apiURL, page string) string {
	base := strings.TrimSuffix(apiURL, "api.php")
	return base + "index.php?title=" + strings.ReplaceAll(page, " ", "+")
}

func buildCleanerConfig(cmd *cobra.Command) (*mediawiki.Config, error) {
	var cfg *mediawiki.Config
	if contentOnly, _ := cmd.Flags().GetBool("content-only"); contentOnly {
		cfg = mediawiki.PresetContentOnly()
	} else {
		cfg = mediawiki.DefaultConfig()
	}

	removeSel, _ := cmd.Flags().GetStringSlice("remove")
	keepSel, _ := cmd.Flags().GetStringSlice("keep")
	if len(removeSel) > 0 || len(keepSel) > 0 {
		cfg = cfg.Merge(&mediawiki.Config{
			RemoveSelectors: removeSel,
			KeepSelectors:   keepSel,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeContent(cmd *cobra.Command, content string) error {
	outputFile, _ := cmd.Flags().GetString("output")
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		logger.Info("cleaned page written", "file", outputFile, "bytes", len(content))
		return nil
	}

	if _, err := fmt.Fprintln(os.Stdout, content); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
