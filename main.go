package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene     string
	ScenesDir string
	Output    string
	Width     int
	Height    int
	Workers   int
	TileSize  int
	Seed      int64
	Linear    bool
	Verbose   bool
	List      bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, newLogger(opts.Verbose, os.Stderr)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// parseFlags reads command line options; -help prints usage and returns flag.ErrHelp
func parseFlags(args []string, out io.Writer) (options, error) {
	defaults := renderer.DefaultFrameConfig()
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(out)

	var opts options
	fs.StringVar(&opts.Scene, "scene", "default", "Built-in scene name, scene file path, or scene name from -scenes")
	fs.StringVar(&opts.ScenesDir, "scenes", "scenes", "Directory searched for scene files")
	fs.StringVar(&opts.Output, "o", "", "Output PNG path (default: the file named by the scene)")
	fs.IntVar(&opts.Width, "width", 400, "Image width for built-in scenes")
	fs.IntVar(&opts.Height, "height", 225, "Image height for built-in scenes")
	fs.IntVar(&opts.Workers, "workers", defaults.NumWorkers, "Number of render workers")
	fs.IntVar(&opts.TileSize, "tile", defaults.TileSize, "Tile size in pixels")
	fs.Int64Var(&opts.Seed, "seed", defaults.Seed, "Random seed for anti-aliasing, depth of field and roughness")
	fs.BoolVar(&opts.Linear, "linear", false, "Write linear values instead of sRGB")
	fs.BoolVar(&opts.Verbose, "v", false, "Log progress to stderr")
	fs.BoolVar(&opts.List, "list", false, "List available scenes and exit")
	help := fs.Bool("help", false, "Show help information")

	fs.Usage = func() {
		fmt.Fprintln(out, "Whitted Raytracer")
		fmt.Fprintln(out, "Usage: raytracer [options]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if *help {
		fs.Usage()
		return opts, flag.ErrHelp
	}
	return opts, nil
}

// run renders the selected scene and writes the PNG
func run(ctx context.Context, opts options, stdout io.Writer, logger core.Logger) error {
	if opts.List {
		return listScenes(stdout, opts.ScenesDir)
	}

	selected, err := createScene(opts.Scene, opts.ScenesDir, opts.Width, opts.Height, logger)
	if err != nil {
		return err
	}
	if opts.Linear {
		selected.Settings.SRGB = false
	}
	output := opts.Output
	if output == "" {
		output = selected.Settings.Output
	}

	fmt.Fprintf(stdout, "Rendering %s: %dx%d, %d primitives, %d lights\n",
		opts.Scene, selected.Settings.Width, selected.Settings.Height, selected.PrimitiveCount(), len(selected.Lights))
	bvhStats := selected.BVH.Stats()
	logger.Printf("BVH: %d nodes, %d leaves, depth %d\n", bvhStats.TotalNodes, bvhStats.LeafNodes, bvhStats.MaxDepth)
	if bounds := selected.BVH.BoundingBox(); bounds.IsValid() {
		logger.Printf("Scene bounds: %v to %v\n", bounds.Min, bounds.Max)
	}

	config := renderer.FrameConfig{
		TileSize:   opts.TileSize,
		NumWorkers: opts.Workers,
		Seed:       opts.Seed,
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	frame, stats, err := renderer.NewFrameRenderer(selected, config, logger).RenderFrame(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	img := renderer.PostProcess(frame, renderer.PostConfigFromSettings(selected.Settings))
	if err := savePNG(output, img); err != nil {
		return err
	}

	// Ray counts run into the millions; group the digits
	printer := message.NewPrinter(language.English)
	printer.Fprintf(stdout, "Render completed in %v (%d rays, %.0f rays/s, %d of %d pixels hit)\n",
		stats.Elapsed.Round(time.Millisecond), stats.TotalRays, stats.RaysPerSecond(), stats.HitPixels, stats.TotalPixels)
	fmt.Fprintf(stdout, "Render saved as %s\n", output)
	return nil
}

// createScene resolves a scene by built-in name, then file path, then the
// name declared in a scene file under scenesDir
func createScene(name, scenesDir string, width, height int, logger core.Logger) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given")
	}
	if slices.Contains(scene.PresetNames(), name) {
		return scene.NewPresetScene(name, width, height)
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return loaders.LoadSceneFile(name, logger)
	}

	scenes, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.Name == name {
			return loaders.LoadSceneFile(info.FilePath, logger)
		}
	}
	return nil, fmt.Errorf("unknown scene %q (built-in scenes: %v)", name, scene.PresetNames())
}

// listScenes prints the built-in scenes followed by scene files in dir
func listScenes(w io.Writer, dir string) error {
	fmt.Fprintln(w, "Built-in scenes:")
	for _, name := range scene.PresetNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}

	scenes, err := scene.ListSceneFiles(dir)
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Scene files in %s:\n", dir)
	for _, info := range scenes {
		if info.Description != "" {
			fmt.Fprintf(w, "  %s - %s\n", info.Name, info.Description)
		} else {
			fmt.Fprintf(w, "  %s (%s)\n", info.Name, info.FilePath)
		}
	}
	return nil
}

// savePNG writes img to filename, creating parent directories as needed
func savePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return file.Close()
}
