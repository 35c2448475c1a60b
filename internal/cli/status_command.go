package cli

import (
	"flag"
	"fmt"
)

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	jsonOut := fs.Bool("json", false, "print the full job list as JSON")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.manager.Snapshot()
	if *jsonOut {
		return printJSON(sortedJobs(snap))
	}

	c := a.manager.Rollup()
	fmt.Printf("tracked: %d (queued %d, downloading %d, complete %d, error %d, cancelled %d)\n",
		c.Total, c.Queued, c.Downloading, c.Complete, c.Errored, c.Cancelled)
	if c.Total == 0 {
		return nil
	}
	fmt.Println()
	for _, job := range sortedJobs(snap) {
		fmt.Printf("  %s  %s\n", job.ID, jobSummaryLine(job))
	}
	return nil
}
