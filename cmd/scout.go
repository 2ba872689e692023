// Command-line entrypoint: run one scrape without the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"scout/config"
	"scout/services/scraper"
	"scout/utils/jsonutils"
	"scout/utils/logging"
	"scout/utils/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	args := os.Args[1:]
	if len(args) < 2 || args[0] != "scrape" {
		fmt.Println("Scout CLI usage:")
		fmt.Println("  scout scrape <url> [name=selector ...]   # scrape a page and print the result")
		fmt.Println()
		fmt.Println("Without selectors the page title and heading are extracted.")
		os.Exit(1)
	}

	target := args[1]
	descriptors, err := parseSelectors(args[2:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	policy, err := config.LoadBlockPolicy(cfg.PolicyFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	runID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	logging.AppLogger.Info("cli scrape starting",
		zap.String("run_id", runID),
		zap.String("url", target))

	engine := scraper.NewEngine(cfg, policy)
	defer engine.Shutdown()

	opts := types.ScrapeOptions{}.Resolve(cfg.NavTimeout)
	bundle, err := engine.Scrape(context.Background(), target, descriptors, opts)
	if err != nil {
		logging.ErrorLogger.Error("cli scrape failed",
			zap.String("run_id", runID), zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	fmt.Println(jsonutils.ToJSON(bundle))
}

// parseSelectors turns "name=selector" pairs into text descriptors.
// "name=selector@attr" extracts an attribute instead.
func parseSelectors(args []string) ([]types.FieldDescriptor, error) {
	if len(args) == 0 {
		return []types.FieldDescriptor{
			{Name: "title", Query: "title", Kind: types.KindText},
			{Name: "heading", Query: "h1", Kind: types.KindText},
		}, nil
	}
	descriptors := make([]types.FieldDescriptor, 0, len(args))
	for _, arg := range args {
		name, rest, ok := strings.Cut(arg, "=")
		if !ok || name == "" || rest == "" {
			return nil, fmt.Errorf("bad selector %q, want name=selector", arg)
		}
		d := types.FieldDescriptor{Name: name, Query: rest, Kind: types.KindText}
		if query, attr, hasAttr := strings.Cut(rest, "@"); hasAttr && attr != "" {
			d.Query = query
			d.Kind = types.KindAttribute
			d.Attribute = attr
		}
		descriptors = append(descriptors, d)
	}
	if err := types.ValidateDescriptors(descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}
