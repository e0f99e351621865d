package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/skillhq/skillpack/pkg/logger"
	"github.com/skillhq/skillpack/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	Root         string
	IgnoreDirs   []string
	DebounceTime int
}

func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		Root:         ".",
		IgnoreDirs:   []string{".git", "node_modules"},
		DebounceTime: 500,
	}
}

// FileEvent is a file system event with its observation time
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Re-lint the corpus whenever its files change",
	Long: `Continuously monitor the corpus and re-run the lint report whenever a
skill or document changes. Events are debounced so editor save bursts
produce a single run.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd, args)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Cancellation requested, shutting down...")
			cancel()
		}()

		runWatchMode(ctx, config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().StringSliceP("ignore", "i", defaults.IgnoreDirs, "Directories to ignore")
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	rootCmd.AddCommand(watchCmd)
}

func getWatchConfigFromFlags(cmd *cobra.Command, args []string) *WatchConfig {
	config := NewWatchConfig()
	if len(args) > 0 {
		config.Root = args[0]
	}
	if ignoreDirs, err := cmd.Flags().GetStringSlice("ignore"); err == nil {
		config.IgnoreDirs = ignoreDirs
	}
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	return config
}

func runWatchMode(ctx context.Context, config *WatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		os.Exit(1)
	}
	defer watcher.Close()

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)

	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				logger.G(ctx).WithField("file", event.Path).Debug("Re-running lint")
				relint(config.Root)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ignoredPath(event.Name, config.IgnoreDirs) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					events <- FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()

	err = filepath.Walk(config.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if ignoredPath(path, config.IgnoreDirs) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		presenter.Error(err, "Failed to watch corpus")
		os.Exit(1)
	}

	presenter.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", config.Root))
	relint(config.Root)

	<-ctx.Done()
}

// debounceFileEvents coalesces bursts of events, forwarding only the last
// event once the interval elapses without new activity.
func debounceFileEvents(ctx context.Context, in <-chan FileEvent, out chan<- FileEvent, interval time.Duration) {
	var (
		pending FileEvent
		hasEvt  bool
		timer   = time.NewTimer(interval)
	)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case evt, ok := <-in:
			if !ok {
				close(out)
				return
			}
			pending = evt
			hasEvt = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)
		case <-timer.C:
			if hasEvt {
				out <- pending
				hasEvt = false
			}
		case <-ctx.Done():
			close(out)
			return
		}
	}
}

func ignoredPath(path string, ignoreDirs []string) bool {
	for _, dir := range ignoreDirs {
		if path == dir || strings.Contains(path, string(os.PathSeparator)+dir+string(os.PathSeparator)) ||
			strings.HasSuffix(path, string(os.PathSeparator)+dir) || strings.HasPrefix(path, dir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func relint(root string) {
	report, err := buildReport(root)
	if err != nil {
		presenter.Error(err, "Failed to lint corpus")
		return
	}
	renderReport(report)
	presenter.Separator()
}
