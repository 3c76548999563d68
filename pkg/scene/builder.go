package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrNoFrame is returned when geometry, lights or camera settings arrive
	// before the frame has been declared
	ErrNoFrame = errors.New("frame must be declared first")

	// ErrVertexIndex is returned for a triangle index outside the vertex list
	ErrVertexIndex = errors.New("vertex index out of range")

	// ErrInvalidCamera is returned for camera parameters with no usable basis
	ErrInvalidCamera = errors.New("invalid camera")

	// ErrInvalidSetting is returned for out-of-range render settings
	ErrInvalidSetting = errors.New("invalid render setting")
)

// Builder assembles a scene one command at a time. Material state set on the
// builder is copied into each primitive when it is added, so later changes
// never affect primitives that already exist.
type Builder struct {
	framed   bool
	settings RenderSettings
	camera   CameraConfig
	state    material.Material

	vertices []geometry.Vertex
	shapes   []geometry.Shape
	lights   []lights.Light
}

// NewBuilder creates a builder with default camera, settings and material
func NewBuilder() *Builder {
	return &Builder{
		settings: DefaultRenderSettings(),
		camera:   DefaultCameraConfig(),
		state:    material.Default(),
	}
}

// Frame declares the image size and output target
func (b *Builder) Frame(width, height int, output string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidSetting, width, height)
	}
	b.framed = true
	b.settings.Width = width
	b.settings.Height = height
	b.settings.Output = output
	return nil
}

func (b *Builder) requireFrame(command string) error {
	if !b.framed {
		return fmt.Errorf("%s: %w", command, ErrNoFrame)
	}
	return nil
}

// State returns the material that the next primitive will receive
func (b *Builder) State() material.Material {
	return b.state
}

// SetColor sets the flat color used by later primitives and lights
func (b *Builder) SetColor(color core.Vec3) error {
	return b.setState(func(m *material.Material) { m.Color = color })
}

// SetTexture binds a texture for later primitives; nil removes it
func (b *Builder) SetTexture(texture material.Texture) {
	b.state.Texture = texture
}

// SetTexcoord sets the texture coordinate attached to later vertices
func (b *Builder) SetTexcoord(u, v float64) {
	b.state.Texcoord = core.NewVec2(u, v)
}

// SetShininess sets the per-channel reflection weight
func (b *Builder) SetShininess(shininess core.Vec3) error {
	return b.setState(func(m *material.Material) { m.Shininess = shininess })
}

// SetTransparency sets the per-channel refraction weight
func (b *Builder) SetTransparency(transparency core.Vec3) error {
	return b.setState(func(m *material.Material) { m.Transparency = transparency })
}

// SetRefractionIndex sets the index of refraction for later primitives
func (b *Builder) SetRefractionIndex(ior float64) error {
	return b.setState(func(m *material.Material) { m.RefractionIndex = ior })
}

// SetRoughness sets the normal perturbation for later primitives; only spheres use it
func (b *Builder) SetRoughness(roughness float64) error {
	return b.setState(func(m *material.Material) { m.Roughness = roughness })
}

// setState applies an edit to a copy of the state and keeps it only if valid
func (b *Builder) setState(edit func(*material.Material)) error {
	next := b.state
	edit(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	b.state = next
	return nil
}

// AddSphere adds a sphere with the current material
func (b *Builder) AddSphere(center core.Vec3, radius float64) error {
	if err := b.requireFrame("sphere"); err != nil {
		return err
	}
	sphere, err := geometry.NewSphere(center, radius, b.state)
	if err != nil {
		return err
	}
	b.shapes = append(b.shapes, sphere)
	return nil
}

// AddPlane adds the plane ax + by + cz + d = 0 with the current material
func (b *Builder) AddPlane(a, bCoeff, c, d float64) error {
	if err := b.requireFrame("plane"); err != nil {
		return err
	}
	plane, err := geometry.NewPlaneFromCoefficients(a, bCoeff, c, d, b.state)
	if err != nil {
		return err
	}
	b.shapes = append(b.shapes, plane)
	return nil
}

// AddVertex appends a vertex carrying the current texture coordinate
func (b *Builder) AddVertex(point core.Vec3) error {
	if err := b.requireFrame("xyz"); err != nil {
		return err
	}
	if !point.IsFinite() {
		return fmt.Errorf("%w: vertex %v is not finite", geometry.ErrDegenerate, point)
	}
	b.vertices = append(b.vertices, geometry.Vertex{Point: point, Texcoord: b.state.Texcoord})
	return nil
}

// VertexCount returns the number of vertices declared so far
func (b *Builder) VertexCount() int {
	return len(b.vertices)
}

// AddTriangle adds a triangle over three vertices. Indices are 1-based;
// negative indices count back from the most recent vertex.
func (b *Builder) AddTriangle(i, j, k int) error {
	if err := b.requireFrame("tri"); err != nil {
		return err
	}
	var corners [3]geometry.Vertex
	for n, index := range [3]int{i, j, k} {
		resolved, err := b.resolveVertex(index)
		if err != nil {
			return err
		}
		corners[n] = b.vertices[resolved]
	}
	triangle, err := geometry.NewTriangle(corners[0], corners[1], corners[2], b.state)
	if err != nil {
		return err
	}
	b.shapes = append(b.shapes, triangle)
	return nil
}

// AddMesh adds a triangle for each face over its own vertex list and returns
// how many were added. Faces use 0-based indices into vertices and the mesh
// does not touch the xyz list. Faces with no area are skipped.
func (b *Builder) AddMesh(vertices []geometry.Vertex, faces [][3]int) (int, error) {
	if err := b.requireFrame("ply"); err != nil {
		return 0, err
	}
	triangles := make([]geometry.Shape, 0, len(faces))
	for n, face := range faces {
		var corners [3]geometry.Vertex
		for c, index := range face {
			if index < 0 || index >= len(vertices) {
				return 0, fmt.Errorf("%w: face %d uses %d with %d vertices", ErrVertexIndex, n, index, len(vertices))
			}
			corners[c] = vertices[index]
		}
		triangle, err := geometry.NewTriangle(corners[0], corners[1], corners[2], b.state)
		if errors.Is(err, geometry.ErrDegenerate) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("face %d: %w", n, err)
		}
		triangles = append(triangles, triangle)
	}
	b.shapes = append(b.shapes, triangles...)
	return len(triangles), nil
}

func (b *Builder) resolveVertex(index int) (int, error) {
	count := len(b.vertices)
	resolved := index - 1
	if index < 0 {
		resolved = count + index
	}
	if index == 0 || resolved < 0 || resolved >= count {
		return 0, fmt.Errorf("%w: %d with %d vertices", ErrVertexIndex, index, count)
	}
	return resolved, nil
}

// AddSun adds a directional light shining from direction with the current color
func (b *Builder) AddSun(direction core.Vec3) error {
	if err := b.requireFrame("sun"); err != nil {
		return err
	}
	sun, err := lights.NewSun(direction, b.state.Color)
	if err != nil {
		return err
	}
	b.lights = append(b.lights, sun)
	return nil
}

// AddBulb adds a point light with the current color
func (b *Builder) AddBulb(position core.Vec3) error {
	if err := b.requireFrame("bulb"); err != nil {
		return err
	}
	bulb, err := lights.NewBulb(position, b.state.Color)
	if err != nil {
		return err
	}
	b.lights = append(b.lights, bulb)
	return nil
}

// SetEye moves the camera
func (b *Builder) SetEye(eye core.Vec3) error {
	if err := b.requireFrame("eye"); err != nil {
		return err
	}
	if !eye.IsFinite() {
		return fmt.Errorf("%w: eye %v", ErrInvalidCamera, eye)
	}
	b.camera.Eye = eye
	return nil
}

// SetForward points the camera and rebuilds right and up around it
func (b *Builder) SetForward(forward core.Vec3) error {
	if err := b.requireFrame("forward"); err != nil {
		return err
	}
	return b.orient(forward, b.camera.Up)
}

// SetUp changes the up hint and rebuilds the basis around the current forward
func (b *Builder) SetUp(up core.Vec3) error {
	if err := b.requireFrame("up"); err != nil {
		return err
	}
	return b.orient(b.camera.Forward, up)
}

// orient computes right = forward x up and up = right x forward, both unit
func (b *Builder) orient(forward, up core.Vec3) error {
	if forward.IsZero() || !forward.IsFinite() || !up.IsFinite() {
		return fmt.Errorf("%w: forward %v up %v", ErrInvalidCamera, forward, up)
	}
	right := forward.Cross(up).Normalize()
	if right.IsZero() {
		return fmt.Errorf("%w: forward %v is parallel to up %v", ErrInvalidCamera, forward, up)
	}
	b.camera.Forward = forward
	b.camera.Right = right
	b.camera.Up = right.Cross(forward).Normalize()
	return nil
}

// SetProjection selects perspective, fisheye or panorama
func (b *Builder) SetProjection(projection Projection) error {
	if err := b.requireFrame(projection.String()); err != nil {
		return err
	}
	b.camera.Projection = projection
	return nil
}

// SetDepthOfField sets the focus distance and lens radius
func (b *Builder) SetDepthOfField(focus, lens float64) error {
	if err := b.requireFrame("dof"); err != nil {
		return err
	}
	if focus < 0 || lens < 0 || !core.NewVec3(focus, lens, 0).IsFinite() {
		return fmt.Errorf("%w: focus %g lens %g", ErrInvalidCamera, focus, lens)
	}
	b.camera.FocusDistance = focus
	b.camera.LensRadius = lens
	return nil
}

// SetBounces sets the maximum reflection/refraction depth
func (b *Builder) SetBounces(bounces int) error {
	if err := b.requireFrame("bounces"); err != nil {
		return err
	}
	if bounces < 0 {
		return fmt.Errorf("%w: bounces %d", ErrInvalidSetting, bounces)
	}
	b.settings.MaxBounces = bounces
	return nil
}

// SetSamples sets the number of anti-aliasing samples per pixel
func (b *Builder) SetSamples(samples int) error {
	if err := b.requireFrame("aa"); err != nil {
		return err
	}
	if samples < 1 {
		return fmt.Errorf("%w: aa %d", ErrInvalidSetting, samples)
	}
	b.settings.SamplesPerPixel = samples
	return nil
}

// SetExposure enables exposure tone mapping
func (b *Builder) SetExposure(exposure float64) error {
	if err := b.requireFrame("expose"); err != nil {
		return err
	}
	if exposure <= 0 || !core.NewVec3(exposure, 0, 0).IsFinite() {
		return fmt.Errorf("%w: exposure %g", ErrInvalidSetting, exposure)
	}
	b.settings.Exposure = exposure
	b.settings.UseExposure = true
	return nil
}

// SetSRGB toggles the sRGB transfer function
func (b *Builder) SetSRGB(enabled bool) {
	b.settings.SRGB = enabled
}

// Build freezes the current contents into a Scene and builds its BVH.
// The builder may keep being used; the returned scene does not change.
func (b *Builder) Build() (*Scene, error) {
	if err := b.requireFrame("build"); err != nil {
		return nil, err
	}
	shapes := append([]geometry.Shape(nil), b.shapes...)
	return &Scene{
		Shapes:   shapes,
		Lights:   append([]lights.Light(nil), b.lights...),
		Camera:   b.camera,
		Settings: b.settings,
		BVH:      geometry.NewBVH(shapes),
	}, nil
}
