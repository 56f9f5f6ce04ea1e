package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/lottie"
	"github.com/gogpu/lottie/expression"
	"github.com/gogpu/lottie/recording"
	_ "github.com/gogpu/lottie/recording/backends/svg"
	"github.com/gogpu/lottie/scene"
)

// result describes one finished job.
type result struct {
	job    Job
	frames int
	files  []string
	rows   [][]string
}

// runJobs renders every job concurrently. Each job owns its Animation, so
// jobs share no evaluation state. The first error cancels the rest.
func runJobs(ctx context.Context, jobs []Job, log *slog.Logger) ([]result, error) {
	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		g.Go(func() error {
			r, err := renderJob(ctx, job, log)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderJob(ctx context.Context, job Job, log *slog.Logger) (result, error) {
	anim, err := lottie.LoadFile(job.Input,
		lottie.WithLogger(log.With("job", job.Name)),
		lottie.WithExpressions(expression.New(expression.WithLogger(log))),
	)
	if err != nil {
		return result{}, err
	}
	defer anim.Release()

	frames, err := job.frames(anim)
	if err != nil {
		return result{}, err
	}
	if job.Format != formatSummary {
		if err := os.MkdirAll(job.Output, 0o755); err != nil {
			return result{}, err
		}
	}

	res := result{job: job, frames: len(frames)}
	rec := recording.NewRecorder(0, 0)
	for _, f := range frames {
		frame, err := anim.Render(ctx, f)
		if err != nil {
			return result{}, fmt.Errorf("frame %v: %w", f, err)
		}
		switch job.Format {
		case formatSummary:
			res.rows = append(res.rows, summarize(frame)...)
		default:
			name := filepath.Join(job.Output, fmt.Sprintf("%s_%s.%s", job.Name, frameName(frame.Number), job.Format))
			if err := writeFrame(rec.Record(frame), anim, job.Format, name); err != nil {
				return result{}, err
			}
			res.files = append(res.files, name)
		}
	}
	return res, nil
}

// writeFrame plays r back to a fresh backend of the given format and saves
// the result to name.
func writeFrame(r *recording.Recording, anim *lottie.Animation, format, name string) error {
	b, err := recording.NewBackend(format)
	if err != nil {
		return err
	}
	fb, ok := b.(recording.FileBackend)
	if !ok {
		return fmt.Errorf("backend %q cannot write files", format)
	}
	if ib, ok := b.(recording.ImageBackend); ok {
		ib.SetImageResolver(func(id string) string {
			href, err := anim.AssetHref(id)
			if err != nil {
				return id
			}
			return href
		})
	}
	if err := r.Playback(b); err != nil {
		return err
	}
	return fb.SaveToFile(name)
}

// frameName formats a frame number for file names: 12 -> "0012",
// 12.5 -> "0012.5", -3 -> "-0003".
func frameName(f float64) string {
	sign := ""
	if f < 0 {
		sign, f = "-", -f
	}
	whole := strconv.FormatFloat(float64(int(f)), 'f', 0, 64)
	name := sign + strings.Repeat("0", max(0, 4-len(whole))) + whole
	if frac := f - float64(int(f)); frac != 0 {
		name += strings.TrimPrefix(strconv.FormatFloat(frac, 'f', -1, 64), "0")
	}
	return name
}

// summarize lists the visible layers of frame, precomp children indented.
func summarize(frame *scene.Frame) [][]string {
	var rows [][]string
	var walk func(layers []*scene.LayerFrame, depth int)
	walk = func(layers []*scene.LayerFrame, depth int) {
		for _, l := range layers {
			paths := 0
			for _, st := range l.Styles {
				if st.Paths != nil {
					paths += st.Paths.Len()
				}
			}
			name := strings.Repeat("  ", depth) + l.Name
			if l.MatteSource {
				name += " (matte)"
			}
			rows = append(rows, []string{
				strconv.FormatFloat(frame.Number, 'f', -1, 64),
				name,
				l.Kind.String(),
				strconv.FormatFloat(l.Opacity, 'f', 2, 64),
				strconv.Itoa(len(l.Styles)),
				strconv.Itoa(paths),
				strconv.FormatBool(l.Changed),
			})
			walk(l.Children, depth+1)
		}
	}
	walk(frame.Layers, 0)
	return rows
}

// report prints what the jobs produced.
func report(results []result) {
	for _, r := range results {
		if len(r.rows) > 0 {
			pterm.Info.Println(r.job.Name)
			data := pterm.TableData{{"frame", "layer", "kind", "opacity", "styles", "paths", "changed"}}
			data = append(data, r.rows...)
			pterm.DefaultTable.WithHasHeader().WithData(data).Render()
			continue
		}
		pterm.Success.Printf("%s: %d frames written to %s\n", r.job.Name, len(r.files), r.job.Output)
	}
}
