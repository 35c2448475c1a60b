package cli

import (
	"flag"
	"fmt"

	"songs-downloader/internal/config"
	"songs-downloader/internal/store"
)

func runTheme(args []string) error {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The theme is panel chrome, not download state; reading or setting it
	// does not need the state lock or a backend connection.
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	st := store.New(cfg.StateDir)

	if fs.NArg() == 0 {
		fmt.Println(st.LoadTheme())
		return nil
	}

	choice := fs.Arg(0)
	switch choice {
	case store.ThemeDark, store.ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q (dark or light)", choice)
	}
	if err := st.SaveTheme(choice); err != nil {
		return err
	}
	fmt.Println("theme set to", choice)
	return nil
}
