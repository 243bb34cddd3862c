// Command transcriptctl is a terminal front end for the transcript
// downloader backend: resolve a channel, check languages, run a processing
// job with live progress, and inspect quota usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/devils-eye/youtube-transcript-downloader/internal/model"
	"github.com/devils-eye/youtube-transcript-downloader/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New()

	var err error
	switch os.Args[1] {
	case "lookup":
		err = runLookup(ctx, c, os.Args[2:])
	case "languages":
		err = runLanguages(ctx, c, os.Args[2:])
	case "check":
		err = runCheck(ctx, c, os.Args[2:])
	case "process":
		err = runProcess(ctx, c, os.Args[2:])
	case "quota":
		err = runQuota(ctx, c)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: transcriptctl <command> [flags]

Commands:
  lookup <url>       resolve a channel or video URL into its video list
  languages <id>     list available transcript languages for a video
  check <url>        batch-check transcript availability for a channel
  process <url>      download transcripts for a channel or video
  quota              show YouTube API quota usage

The backend address comes from API_BASE_URL (default http://127.0.0.1:5000).`)
}

func runLookup(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: transcriptctl lookup <url>")
	}

	resp, err := c.ResolveChannel(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if resp.IsVideoURL {
		fmt.Println("Single Video")
	} else {
		fmt.Printf("Channel Videos (%d)\n", resp.VideoCount)
	}
	for _, v := range resp.Videos {
		fmt.Printf("  %s  %s\n", v.ID, v.Title)
	}
	return nil
}

func runLanguages(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("languages", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: transcriptctl languages <videoId>")
	}

	langs, err := c.Languages(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	for _, l := range langs {
		kind := "manual"
		if l.IsGenerated {
			kind = "auto-generated"
		}
		fmt.Printf("  %-8s %s (%s)\n", l.Code, l.Name, kind)
	}
	return nil
}

func runCheck(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	language := fs.String("language", "en", "language code to report availability for")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: transcriptctl check [flags] <url>")
	}

	resolved, err := c.ResolveChannel(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("Channel Videos (%d)\n", resolved.VideoCount)

	ids := make([]string, len(resolved.Videos))
	for i, v := range resolved.Videos {
		ids[i] = v.ID
	}

	checker := client.NewBatchChecker(c.Languages)
	checker.OnGroup(func(results map[string][]model.LanguageOption) {
		fmt.Printf("  checked %d/%d...\n", len(results), len(ids))
	})
	checker.Run(ctx, ids)

	for _, v := range resolved.Videos {
		langs, _ := checker.Languages(v.ID)
		avail := "no transcript"
		for _, l := range langs {
			if l.Code == *language {
				avail = *language
				if l.IsGenerated {
					avail += " (auto-generated)"
				}
				break
			}
		}
		if avail == "no transcript" && len(langs) > 0 {
			avail = fmt.Sprintf("no %s transcript (%d other languages)", *language, len(langs))
		}
		fmt.Printf("  %s  %-50s %s\n", v.ID, trim(v.Title, 50), avail)
	}
	return nil
}

func runProcess(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	language := fs.String("language", "en", "transcript language code")
	outputType := fs.String("output-type", "token_limit", "split strategy: token_limit, file_limit or both")
	limitValue := fs.Int("limit", 0, "token or file limit value")
	outputStyle := fs.String("style", "both", "output style: individual, combined or both")
	outputDir := fs.String("output-dir", "", "override the server output directory")
	filterNoTranscript := fs.Bool("filter", false, "skip videos without a transcript in the language")
	videoIDs := fs.String("videos", "", "comma-separated video ids to process (default: all)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: transcriptctl process [flags] <url>")
	}

	resolved, err := c.ResolveChannel(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if resolved.IsVideoURL {
		fmt.Printf("Processing single video: %s\n", resolved.Videos[0].Title)
	} else {
		fmt.Printf("Channel Videos (%d)\n", resolved.VideoCount)
	}

	videos := selectVideos(resolved.Videos, *videoIDs)
	if len(videos) == 0 {
		return fmt.Errorf("no videos selected")
	}
	if len(videos) < len(resolved.Videos) {
		fmt.Printf("Selected %d of %d videos\n", len(videos), len(resolved.Videos))
	}

	resp, err := c.StartProcessing(ctx, model.ProcessRequest{
		Videos:              videos,
		Language:            *language,
		OutputType:          *outputType,
		LimitValue:          *limitValue,
		FilterHasTranscript: *filterNoTranscript,
		OutputDir:           *outputDir,
		OutputStyle:         *outputStyle,
		IsVideoURL:          resolved.IsVideoURL,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Task started: %s\n", resp.TaskID)

	done := make(chan *model.Task, 1)
	poller := client.NewPoller(c, resp.TaskID, client.PollerCallbacks{
		OnProgress: func(task *model.Task) {
			fmt.Printf("\r%3.0f%%  %-60s (%ds)", task.Percent, trim(task.Status, 60), task.ElapsedSeconds)
		},
		OnComplete: func(task *model.Task) {
			fmt.Println()
			done <- task
		},
		OnCancelled: func(task *model.Task) {
			fmt.Println("\nCancelled.")
			done <- nil
		},
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "\npoll error (retrying): %v\n", err)
		},
	})

	pollCtx, cancelPoll := context.WithCancel(context.Background())
	defer cancelPoll()
	poller.Start(pollCtx)

	select {
	case <-ctx.Done():
		// Interrupt: ask the server to stop, then wait for confirmation.
		fmt.Println("\nCancelling...")
		if err := poller.Cancel(context.Background()); err != nil {
			return err
		}
		<-done
		return nil
	case task := <-done:
		if task == nil || task.Results == nil {
			return nil
		}
		outDir, _ := c.OutputDir(context.Background())
		printResults(c, outDir, task.Results)
		return nil
	}
}

// selectVideos applies a comma-separated id selection to the resolved list,
// keeping the list's original ordering. An empty selection means all videos.
func selectVideos(videos []model.Video, csv string) []model.Video {
	sel := client.NewSelection()

	if strings.TrimSpace(csv) == "" {
		ids := make([]string, len(videos))
		for i, v := range videos {
			ids[i] = v.ID
		}
		sel.SelectAll(ids)
	} else {
		for _, id := range strings.Split(csv, ",") {
			id = strings.TrimSpace(id)
			if id != "" && !sel.Selected(id) {
				sel.Toggle(id)
			}
		}
	}

	out := make([]model.Video, 0, sel.Len())
	for _, v := range videos {
		if sel.Selected(v.ID) {
			out = append(out, v)
		}
	}
	return out
}

func printResults(c *client.Client, outDir string, r *model.ProcessingResult) {
	fmt.Printf("Done: %d transcripts, %d failed\n", len(r.Successful), len(r.Failed))
	for _, f := range r.Failed {
		fmt.Printf("  failed: %s (%s)\n", f.Title, f.Reason)
	}
	for _, w := range r.Warnings {
		fmt.Println("  warning:", w)
	}
	if len(r.OutputFiles) > 0 {
		fmt.Println("Output files:")
		files := append([]model.OutputFile{}, r.OutputFiles...)
		sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })
		for _, f := range files {
			fmt.Printf("  %s (%d videos, ~%d tokens)\n", f.FilePath, len(f.Videos), f.TokenCount)
			rel := strings.TrimPrefix(strings.TrimPrefix(f.FilePath, outDir), "/")
			fmt.Printf("    %s\n", c.DownloadURL(rel))
		}
	}
}

func runQuota(ctx context.Context, c *client.Client) error {
	info, err := c.Quota(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Quota: %d / %d units used (%.1f%%)\n", info.UsedQuota, info.DailyQuota, info.QuotaUsagePercent)
	fmt.Printf("Resets in %dh %dm\n", info.HoursUntilReset, info.MinutesUntilReset)

	switch {
	case info.QuotaUsagePercent >= 90:
		fmt.Println("WARNING: quota nearly exhausted, channel lookups may start failing")
	case info.QuotaUsagePercent >= 70:
		fmt.Println("Note: quota usage is high")
	}
	return nil
}

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
