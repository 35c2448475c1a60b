package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	var err error
	switch args[0] {
	case "download":
		err = runDownload(args[1:])
	case "bulk":
		err = runBulk(args[1:])
	case "playlist":
		err = runPlaylist(args[1:])
	case "search":
		err = runSearch(args[1:])
	case "status":
		err = runStatus(args[1:])
	case "manager":
		err = runManagerPanel(args[1:])
	case "cancel":
		err = runCancel(args[1:])
	case "clear":
		err = runClearFinished(args[1:])
	case "stop-all":
		err = runStopAll(args[1:])
	case "remove":
		err = runRemove(args[1:])
	case "remove-all":
		err = runRemoveAll(args[1:])
	case "theme":
		err = runTheme(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return err
}

func printRootUsage() {
	fmt.Println("songs-downloader: terminal client for a remote music/video download service")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  songs-downloader search --query \"artist - track\"")
	fmt.Println("  songs-downloader download --url <url>")
	fmt.Println("  songs-downloader manager")
	fmt.Println()
	fmt.Println("Download Commands:")
	fmt.Println("  download  submit a single download and poll it to completion")
	fmt.Println("  bulk      submit a batch of URLs and poll them as one group")
	fmt.Println("  playlist  submit a playlist URL, optionally restricted to an item range")
	fmt.Println("  search    search the backend catalog for tracks or videos")
	fmt.Println()
	fmt.Println("Manager Commands:")
	fmt.Println("  manager     interactive download manager panel")
	fmt.Println("  status      status rollup for tracked downloads")
	fmt.Println("  cancel      cancel one tracked download (local state only)")
	fmt.Println("  stop-all    cancel every queued or running download")
	fmt.Println("  clear       remove finished (complete/error) downloads")
	fmt.Println("  remove      remove one tracked download")
	fmt.Println("  remove-all  remove every tracked download")
	fmt.Println("  theme       show or set the panel theme (dark|light)")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Backend URL comes from config.yaml or SONGS_API_URL")
}
