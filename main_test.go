package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"sphere-grid scene", "sphere-grid", false},
		{"mirrors scene", "mirrors", false},

		// Scene files by name and by path
		{"glass by name", "glass", false},
		{"triangles by name", "triangles", false},
		{"direct path", "scenes/glass.txt", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"missing path", "scenes/nonexistent.txt", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType, "scenes", 80, 45, core.NopLogger{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.Settings.Width <= 0 || scene.Settings.Height <= 0 {
				t.Errorf("Scene size should be positive, got %dx%d", scene.Settings.Width, scene.Settings.Height)
			}
			if scene.PrimitiveCount() == 0 {
				t.Error("Scene should contain primitives")
			}
			if len(scene.Lights) == 0 {
				t.Error("Scene should contain lights")
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	var out bytes.Buffer
	opts, err := parseFlags([]string{"-scene", "mirrors", "-workers", "3", "-seed", "7", "-linear", "-o", "x.png"}, &out)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.Scene != "mirrors" || opts.Workers != 3 || opts.Seed != 7 || !opts.Linear || opts.Output != "x.png" {
		t.Errorf("Unexpected options %+v", opts)
	}

	out.Reset()
	if _, err := parseFlags([]string{"-help"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(out.String(), "-scene") {
		t.Errorf("Expected usage text, got %q", out.String())
	}

	if _, err := parseFlags([]string{"-workers", "many"}, &out); err == nil {
		t.Error("Expected an error for a bad flag value")
	}
}

func TestRun_WritesPNG(t *testing.T) {
	output := filepath.Join(t.TempDir(), "nested", "render.png")
	opts := options{
		Scene:     "default",
		ScenesDir: "scenes",
		Output:    output,
		Width:     32,
		Height:    18,
		Workers:   2,
		TileSize:  8,
		Seed:      1,
	}

	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout, newLogger(false, nil)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Render saved as "+output) {
		t.Errorf("Unexpected output %q", stdout.String())
	}

	file, err := os.Open(output)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("Expected 32x18 image, got %v", b)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	output := filepath.Join(t.TempDir(), "render.png")
	opts := options{Scene: "default", ScenesDir: "scenes", Output: output, Width: 64, Height: 64, Workers: 1, TileSize: 8}
	err := run(ctx, opts, &bytes.Buffer{}, newLogger(false, nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("No image should be written for a cancelled render")
	}
}

func TestListScenes(t *testing.T) {
	var out bytes.Buffer
	if err := listScenes(&out, "scenes"); err != nil {
		t.Fatalf("listScenes: %v", err)
	}
	for _, want := range []string{"default", "mirrors", "glass - Glass sphere", "triangles"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected listing to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(false, &buf).Printf("hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Errorf("Silent logger wrote %q", buf.String())
	}

	newLogger(true, &buf).Printf("shown %d\n", 2)
	if !strings.Contains(buf.String(), "msg=\"shown 2\"") {
		t.Errorf("Expected a text record, got %q", buf.String())
	}
}
