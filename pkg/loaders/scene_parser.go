package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrSceneSyntax is returned for malformed scene commands
var ErrSceneSyntax = errors.New("scene syntax error")

// ParseOptions configures how external files referenced by a scene are found
type ParseOptions struct {
	// BaseDir is the directory that relative texture and mesh paths resolve against
	BaseDir string

	// LoadTexture decodes a texture file; defaults to a fresh TextureCache
	LoadTexture func(filename string) (material.Texture, error)

	// Logger receives ignored-command notices; nil discards them
	Logger core.Logger
}

// sceneParser holds the state for a single pass over a scene description
type sceneParser struct {
	builder *scene.Builder
	opts    ParseOptions
	line    int
}

// LoadSceneFile parses a scene description file and builds the scene.
// Relative paths inside the file resolve against the file's directory.
func LoadSceneFile(filename string, logger core.Logger) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	builder := scene.NewBuilder()
	opts := ParseOptions{BaseDir: filepath.Dir(filename), Logger: logger}
	if err := ParseScene(file, builder, opts); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return builder.Build()
}

// ParseScene reads scene commands line by line and applies them to the builder
func ParseScene(r io.Reader, builder *scene.Builder, opts ParseOptions) error {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.LoadTexture == nil {
		opts.LoadTexture = NewTextureCache().Load
	}

	p := &sceneParser{builder: builder, opts: opts}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := p.command(fields[0], fields[1:]); err != nil {
			return fmt.Errorf("line %d: %s: %w", p.line, fields[0], err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read scene: %w", err)
	}
	return nil
}

// command dispatches one keyword and its arguments
func (p *sceneParser) command(keyword string, args []string) error {
	b := p.builder
	switch keyword {
	case "png":
		if err := expectArgs(args, 3); err != nil {
			return err
		}
		size, err := parseInts(args[:2])
		if err != nil {
			return err
		}
		return b.Frame(size[0], size[1], args[2])

	case "color":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.SetColor(v)

	case "sphere":
		values, err := parseFloatArgs(args, 4)
		if err != nil {
			return err
		}
		return b.AddSphere(core.NewVec3(values[0], values[1], values[2]), values[3])

	case "plane":
		values, err := parseFloatArgs(args, 4)
		if err != nil {
			return err
		}
		return b.AddPlane(values[0], values[1], values[2], values[3])

	case "xyz":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.AddVertex(v)

	case "tri":
		if err := expectArgs(args, 3); err != nil {
			return err
		}
		idx, err := parseInts(args)
		if err != nil {
			return err
		}
		return b.AddTriangle(idx[0], idx[1], idx[2])

	case "ply":
		if err := expectArgs(args, 1); err != nil {
			return err
		}
		return p.addMesh(args[0])

	case "sun":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.AddSun(v)

	case "bulb":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.AddBulb(v)

	case "texture":
		if err := expectArgs(args, 1); err != nil {
			return err
		}
		if args[0] == "none" {
			b.SetTexture(nil)
			return nil
		}
		texture, err := p.opts.LoadTexture(p.resolve(args[0]))
		if err != nil {
			return err
		}
		b.SetTexture(texture)
		return nil

	case "texcoord":
		values, err := parseFloatArgs(args, 2)
		if err != nil {
			return err
		}
		b.SetTexcoord(values[0], values[1])
		return nil

	case "shininess":
		v, err := parseChannels(args)
		if err != nil {
			return err
		}
		return b.SetShininess(v)

	case "transparency":
		v, err := parseChannels(args)
		if err != nil {
			return err
		}
		return b.SetTransparency(v)

	case "ior":
		values, err := parseFloatArgs(args, 1)
		if err != nil {
			return err
		}
		return b.SetRefractionIndex(values[0])

	case "roughness":
		values, err := parseFloatArgs(args, 1)
		if err != nil {
			return err
		}
		return b.SetRoughness(values[0])

	case "bounces", "aa":
		if err := expectArgs(args, 1); err != nil {
			return err
		}
		n, err := parseInts(args)
		if err != nil {
			return err
		}
		if keyword == "aa" {
			return b.SetSamples(n[0])
		}
		return b.SetBounces(n[0])

	case "dof":
		values, err := parseFloatArgs(args, 2)
		if err != nil {
			return err
		}
		return b.SetDepthOfField(values[0], values[1])

	case "expose":
		values, err := parseFloatArgs(args, 1)
		if err != nil {
			return err
		}
		return b.SetExposure(values[0])

	case "eye":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.SetEye(v)

	case "forward":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.SetForward(v)

	case "up":
		v, err := parseVec3(args)
		if err != nil {
			return err
		}
		return b.SetUp(v)

	case "fisheye":
		return b.SetProjection(scene.Fisheye)

	case "panorama":
		return b.SetProjection(scene.Panorama)

	case "gi":
		p.opts.Logger.Printf("line %d: global illumination is not supported, ignoring %q\n", p.line, keyword)
		return nil

	default:
		p.opts.Logger.Printf("line %d: unknown command %q ignored\n", p.line, keyword)
		return nil
	}
}

// addMesh loads a PLY file and adds its faces with the current material
func (p *sceneParser) addMesh(filename string) error {
	mesh, err := LoadPLY(p.resolve(filename))
	if err != nil {
		return err
	}

	texcoord := p.builder.State().Texcoord
	vertices := make([]geometry.Vertex, len(mesh.Vertices))
	for i, point := range mesh.Vertices {
		vertices[i] = geometry.Vertex{Point: point, Texcoord: texcoord}
		if len(mesh.TexCoords) > 0 {
			vertices[i].Texcoord = mesh.TexCoords[i]
		}
	}

	added, err := p.builder.AddMesh(vertices, mesh.Faces)
	if err != nil {
		return err
	}
	if skipped := len(mesh.Faces) - added; skipped > 0 {
		p.opts.Logger.Printf("line %d: %s: skipped %d degenerate faces\n", p.line, filename, skipped)
	}
	return nil
}

// resolve makes a relative path relative to the scene's directory
func (p *sceneParser) resolve(filename string) string {
	if filepath.IsAbs(filename) || p.opts.BaseDir == "" {
		return filename
	}
	return filepath.Join(p.opts.BaseDir, filename)
}

func expectArgs(args []string, count int) error {
	if len(args) != count {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrSceneSyntax, count, len(args))
	}
	return nil
}

func parseFloatArgs(args []string, count int) ([]float64, error) {
	if err := expectArgs(args, count); err != nil {
		return nil, err
	}
	values := make([]float64, count)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", ErrSceneSyntax, arg)
		}
		values[i] = v
	}
	return values, nil
}

func parseInts(args []string) ([]int, error) {
	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q", ErrSceneSyntax, arg)
		}
		values[i] = v
	}
	return values, nil
}

func parseVec3(args []string) (core.Vec3, error) {
	values, err := parseFloatArgs(args, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// parseChannels accepts one value for all channels or one per channel
func parseChannels(args []string) (core.Vec3, error) {
	if len(args) == 1 {
		values, err := parseFloatArgs(args, 1)
		if err != nil {
			return core.Vec3{}, err
		}
		return core.NewVec3(values[0], values[0], values[0]), nil
	}
	return parseVec3(args)
}
