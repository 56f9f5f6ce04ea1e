// Command lottiectl renders Lottie animations to SVG frames or prints
// per-frame layer summaries.
//
// Usage:
//
//	lottiectl render -in doc.json -out frames -frames 0,15,30-59:5
//	lottiectl render -in doc.json -format summary -marker intro
//	lottiectl render -config render.yaml -watch
//	lottiectl info -in doc.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/gogpu/lottie"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := "render"
	if len(args) > 0 && (args[0] == "render" || args[0] == "info") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("lottiectl "+cmd, flag.ContinueOnError)
	var (
		input   = fs.String("in", "", "input document")
		output  = fs.String("out", ".", "output directory")
		frames  = fs.String("frames", "", "frames to render, e.g. 0,10,20-40:5 (default all)")
		marker  = fs.String("marker", "", "render the frames of a named marker")
		format  = fs.String("format", formatSVG, "output format: "+strings.Join(formats(), " or "))
		config  = fs.String("config", "", "YAML file with render jobs")
		watchFS = fs.Bool("watch", false, "re-render when an input changes")
		verbose = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	lottie.SetLogger(log)

	if cmd == "info" {
		if *input == "" {
			return errors.New("info: -in is required")
		}
		return info(*input)
	}

	var jobs []Job
	switch {
	case *config != "":
		cfg, err := loadConfig(*config)
		if err != nil {
			return err
		}
		jobs = cfg.Jobs
	case *input != "":
		j := Job{Input: *input, Output: *output, Frames: *frames, Marker: *marker, Format: *format}
		if err := j.normalize(); err != nil {
			return err
		}
		jobs = []Job{j}
	default:
		fs.Usage()
		return errors.New("render: -in or -config is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runJobs(ctx, jobs, log)
	if err != nil {
		return err
	}
	report(results)
	if *watchFS {
		return watch(ctx, jobs, log)
	}
	return nil
}

func info(path string) error {
	anim, err := lottie.LoadFile(path)
	if err != nil {
		return err
	}
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	pterm.Info.Println(path)
	pterm.DefaultTable.WithData(pterm.TableData{
		{"name", anim.Name()},
		{"size", fmt.Sprintf("%sx%s", num(anim.Width()), num(anim.Height()))},
		{"frame rate", num(anim.FrameRate())},
		{"frames", fmt.Sprintf("[%s, %s)", num(anim.InPoint()), num(anim.OutPoint()))},
		{"duration", anim.Duration().String()},
		{"layers", strconv.Itoa(len(anim.Document().Layers))},
		{"assets", strconv.Itoa(len(anim.Document().Assets))},
	}).Render()

	if ms := anim.Markers(); len(ms) > 0 {
		data := pterm.TableData{{"marker", "frame", "duration"}}
		for _, m := range ms {
			data = append(data, []string{m.Comment, num(m.Time), num(m.Duration)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
	return nil
}
