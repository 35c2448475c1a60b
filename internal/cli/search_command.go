package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

func runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	query := fs.String("query", "", "search query (required)")
	searchType := fs.String("type", "music", "search type (music, video, all)")
	configPath := fs.String("config", "", "config file path")
	jsonOut := fs.Bool("json", false, "print results as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*query) == "" {
		return fmt.Errorf("--query is required")
	}
	switch *searchType {
	case "music", "video", "all":
	default:
		return fmt.Errorf("unknown search type %q (music, video, or all)", *searchType)
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.manager.Search(context.Background(), *query, *searchType)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for i, r := range results {
		label := r.Title
		if r.Artist != "" {
			label = r.Artist + " - " + r.Title
		}
		fmt.Printf("%2d. %s\n", i+1, label)
		fmt.Printf("    %s", r.URL)
		if r.Source != "" {
			fmt.Printf("  (%s)", r.Source)
		}
		fmt.Println()
	}
	return nil
}
