package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pterm/pterm"
)

// debounce is the quiet period after the last change before jobs rerun.
// Editors often write a file in several steps.
const debounce = 150 * time.Millisecond

// watch reruns the jobs whose input changed until ctx is done.
func watch(ctx context.Context, jobs []Job, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	byFile := make(map[string][]Job)
	dirs := make(map[string]bool)
	for _, j := range jobs {
		abs, err := filepath.Abs(j.Input)
		if err != nil {
			return err
		}
		byFile[abs] = append(byFile[abs], j)
		dirs[filepath.Dir(abs)] = true
	}
	// Watching directories survives editors that replace the file.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	pterm.Info.Printf("watching %d file(s), ctrl-c to stop\n", len(byFile))

	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || byFile[name] == nil {
				continue
			}
			pending[name] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("lottiectl: watch error", "error", err)
		case <-timer.C:
			var rerun []Job
			for name := range pending {
				rerun = append(rerun, byFile[name]...)
				delete(pending, name)
			}
			results, err := runJobs(ctx, rerun, log)
			if err != nil {
				pterm.Error.Println(err)
				continue
			}
			report(results)
		}
	}
}
