package cli

import (
	"flag"
	"fmt"
	"strings"
)

// The registry commands operate on locally tracked state only. The backend
// keeps running whatever it was asked to run; cancel and stop-all mark the
// local entries so the poll loops stand down.

func runCancel(args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	id := fs.String("id", "", "download key to cancel (required)")
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return fmt.Errorf("--id is required")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.manager.Get(*id); !ok {
		return fmt.Errorf("no tracked download with key %q", *id)
	}
	a.manager.Cancel(*id)
	fmt.Println("cancelled", *id)
	return nil
}

func runClearFinished(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	before := a.manager.Rollup().Total
	a.manager.ClearFinished()
	after := a.manager.Rollup().Total
	fmt.Printf("cleared %d finished download(s)\n", before-after)
	return nil
}

func runStopAll(args []string) error {
	fs := flag.NewFlagSet("stop-all", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	active := a.manager.ActiveCount()
	a.manager.StopAll()
	fmt.Printf("stopped %d active download(s)\n", active)
	return nil
}

func runRemove(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	id := fs.String("id", "", "download key to remove (required)")
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		return fmt.Errorf("--id is required")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.manager.Get(*id); !ok {
		return fmt.Errorf("no tracked download with key %q", *id)
	}
	a.manager.Remove(*id)
	fmt.Println("removed", *id)
	return nil
}

func runRemoveAll(args []string) error {
	fs := flag.NewFlagSet("remove-all", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	total := a.manager.Rollup().Total
	if total == 0 {
		fmt.Println("nothing tracked")
		return nil
	}
	if !*yes {
		if !stdinIsTTY() {
			return fmt.Errorf("refusing to remove %d download(s) without --yes on a non-interactive terminal", total)
		}
		fmt.Printf("remove all %d tracked download(s)? [y/N] ", total)
		var answer string
		fmt.Scanln(&answer)
		if v, ok := parseBool(answer); !ok || !v {
			fmt.Println("aborted")
			return nil
		}
	}
	a.manager.RemoveAll()
	fmt.Printf("removed %d download(s)\n", total)
	return nil
}
