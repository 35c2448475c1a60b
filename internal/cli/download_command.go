package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"songs-downloader/internal/api"
	"songs-downloader/internal/manager"
)

// downloadFlags are the format/quality options shared by the download, bulk,
// and playlist commands. They map one-to-one onto the backend's
// advancedOptions object.
type downloadFlags struct {
	video          *bool
	audioFormat    *string
	audioQuality   *string
	embedThumbnail *bool
	addMetadata    *bool
	videoQuality   *string
	videoFPS       *string
	videoFormat    *string
	embedSubtitles *bool
}

func addDownloadFlags(fs *flag.FlagSet) *downloadFlags {
	return &downloadFlags{
		video:          fs.Bool("video", false, "download video instead of audio"),
		audioFormat:    fs.String("audio-format", "mp3", "audio format (mp3, m4a, opus, flac, wav)"),
		audioQuality:   fs.String("audio-quality", "0", "audio quality (0 best .. 9 worst)"),
		embedThumbnail: fs.Bool("embed-thumbnail", true, "embed the thumbnail into audio files"),
		addMetadata:    fs.Bool("add-metadata", true, "write track metadata tags"),
		videoQuality:   fs.String("video-quality", "best", "video quality (best, 1080p, 720p)"),
		videoFPS:       fs.String("video-fps", "any", "video frame rate (any, 30, 60)"),
		videoFormat:    fs.String("video-format", "mkv", "video container (mkv, mp4)"),
		embedSubtitles: fs.Bool("embed-subtitles", false, "embed subtitles into video files"),
	}
}

func (f *downloadFlags) advanced() api.AdvancedOptions {
	opts := api.AdvancedOptions{KeepVideo: *f.video}
	if *f.video {
		opts.VideoQuality = *f.videoQuality
		opts.VideoFPS = *f.videoFPS
		opts.VideoFormat = *f.videoFormat
		opts.EmbedSubtitles = *f.embedSubtitles
		opts.AddMetadata = true
		return opts
	}
	opts.AudioFormat = *f.audioFormat
	opts.AudioQuality = *f.audioQuality
	opts.EmbedThumbnail = *f.embedThumbnail
	opts.AddMetadata = *f.addMetadata
	return opts
}

func (f *downloadFlags) displayMeta() (kind, format, quality string) {
	if *f.video {
		return "video", *f.videoFormat, *f.videoQuality
	}
	return "audio", *f.audioFormat, *f.audioQuality
}

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	urlFlag := fs.String("url", "", "source URL (required)")
	title := fs.String("title", "", "display title (defaults to the URL)")
	configPath := fs.String("config", "", "config file path")
	jsonOut := fs.Bool("json", false, "print the final job state as JSON")
	dl := addDownloadFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*urlFlag) == "" {
		return fmt.Errorf("--url is required")
	}

	a, err := newApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	kind, format, quality := dl.displayMeta()
	key, h, err := a.manager.SubmitSingle(context.Background(), manager.SingleOptions{
		URL:      *urlFlag,
		Title:    *title,
		Advanced: dl.advanced(),
		Type:     kind,
		Format:   format,
		Quality:  quality,
	})
	if err != nil {
		return err
	}

	renderUntilDone(h, func() string {
		job, _ := a.manager.Get(key)
		return jobSummaryLine(job)
	})

	job, _ := a.manager.Get(key)
	if *jsonOut {
		return printJSON(job)
	}
	if job.Error != "" {
		return fmt.Errorf("download failed: %s", job.Error)
	}
	return nil
}
