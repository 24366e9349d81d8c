// Command trackview renders genomic track files to SVG or PNG, opens them in
// an interactive window, or serves charts over HTTP.
//
//	trackview -mode heatmap -in scores.tsv -svg out.svg
//	trackview -mode exons -in genes.bed -png out.png -watch
//	trackview -mode associations -in links.tsv -view
//	trackview -serve :8080 -allow-hosts data.example.org,my-bucket
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/trackview"
	"github.com/phanxgames/trackview/server"
	"github.com/phanxgames/trackview/viewer"
)

const watchDebounce = 200 * time.Millisecond

type config struct {
	mode     string
	in       string
	settings string
	typ      string
	svg      string
	png      string
	script   string
	watch    bool
	view     bool
	serve    string
	allow    string
	debug    bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "heatmap", "graph mode: heatmap, associations or exons")
	flag.StringVar(&cfg.in, "in", "", "input records: a path, http(s):// or gs:// URL")
	flag.StringVar(&cfg.settings, "settings", "", "YAML or JSON settings file")
	flag.StringVar(&cfg.typ, "type", "", "heatmap record type to show")
	flag.StringVar(&cfg.svg, "svg", "", "write the settled chart as SVG")
	flag.StringVar(&cfg.png, "png", "", "write the settled chart as PNG")
	flag.StringVar(&cfg.script, "script", "", "JSON interaction script replayed before export or in the viewer")
	flag.BoolVar(&cfg.watch, "watch", false, "re-export whenever the input or settings file changes")
	flag.BoolVar(&cfg.view, "view", false, "open the chart in a window")
	flag.StringVar(&cfg.serve, "serve", "", "serve the HTTP API on this address")
	flag.StringVar(&cfg.allow, "allow-hosts", "", "comma separated hosts and gs buckets the API may load ?url= from")
	flag.BoolVar(&cfg.debug, "debug", false, "log per-pass timings and reconciliation counts")
	flag.Parse()

	if cfg.serve != "" {
		log.Printf("trackview: serving on %s", cfg.serve)
		srv := server.New()
		if cfg.allow != "" {
			srv.AllowHosts(strings.Split(cfg.allow, ",")...)
		}
		if err := srv.Router().Run(cfg.serve); err != nil {
			log.Fatalf("trackview: %v", err)
		}
		return
	}

	if cfg.in == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chart, err := build(ctx, cfg)
	if err != nil {
		log.Fatalf("trackview: %v", err)
	}

	if cfg.view {
		v := viewer.New(chart)
		v.ShowStats = cfg.debug
		if cfg.script != "" {
			r, err := loadScript(cfg.script)
			if err != nil {
				log.Fatalf("trackview: %v", err)
			}
			v.SetScript(r)
		}
		if err := viewer.RunViewer(v, filepath.Base(cfg.in)); err != nil {
			log.Fatalf("trackview: %v", err)
		}
		return
	}

	if cfg.svg == "" && cfg.png == "" {
		log.Fatal("trackview: nothing to do; pass -svg, -png, -view or -serve")
	}
	if err := export(chart, cfg); err != nil {
		log.Fatalf("trackview: %v", err)
	}
	if cfg.watch {
		if err := watch(ctx, cfg); err != nil && ctx.Err() == nil {
			log.Fatalf("trackview: %v", err)
		}
	}
}

// build creates a chart from the command line configuration and replays the
// script when one is given and no window will own it.
func build(ctx context.Context, cfg config) (*trackview.Chart, error) {
	chart, err := trackview.New(cfg.mode)
	if err != nil {
		return nil, err
	}
	if cfg.debug {
		chart.SetDebugMode(true)
	}

	var opts trackview.Options
	if cfg.settings != "" {
		if opts, err = trackview.LoadOptionsFile(cfg.settings); err != nil {
			return nil, err
		}
	}
	if cfg.typ != "" {
		opts.Type = &cfg.typ
	}
	if err := chart.Configure(opts); err != nil {
		return nil, err
	}
	if err := chart.Load(ctx, trackview.URL(cfg.in)); err != nil {
		return nil, err
	}

	if cfg.script != "" && !cfg.view {
		r, err := loadScript(cfg.script)
		if err != nil {
			return nil, err
		}
		if err := r.Run(chart, 1.0/60); err != nil {
			return nil, err
		}
	}
	chart.Settle()
	return chart, nil
}

func loadScript(path string) (*trackview.ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return trackview.LoadScript(data)
}

// export writes the requested SVG and PNG files concurrently. Both renderers
// only read the settled scene.
func export(chart *trackview.Chart, cfg config) error {
	var g errgroup.Group
	if cfg.svg != "" {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := trackview.WriteSVG(&buf, chart.Scene()); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
			return os.WriteFile(cfg.svg, buf.Bytes(), 0o644)
		})
	}
	if cfg.png != "" {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := trackview.WritePNG(&buf, chart.Scene()); err != nil {
				return fmt.Errorf("png: %w", err)
			}
			return os.WriteFile(cfg.png, buf.Bytes(), 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("trackview: wrote %s", outputs(cfg))
	return nil
}

func outputs(cfg config) string {
	switch {
	case cfg.svg != "" && cfg.png != "":
		return cfg.svg + " and " + cfg.png
	case cfg.svg != "":
		return cfg.svg
	}
	return cfg.png
}

// watch rebuilds and re-exports the chart whenever the input or settings
// file changes. Directories are watched so editors that replace files by
// rename are seen too.
func watch(ctx context.Context, cfg config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	files := map[string]bool{}
	for _, p := range []string{cfg.in, cfg.settings} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	log.Printf("trackview: watching %d file(s)", len(files))

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("trackview: watch: %v", err)
		case <-timer:
			timer = nil
			chart, err := build(ctx, cfg)
			if err != nil {
				log.Printf("trackview: reload: %v", err)
				continue
			}
			if err := export(chart, cfg); err != nil {
				log.Printf("trackview: %v", err)
			}
		}
	}
}
