package loaders

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

const asciiQuad = `ply
format ascii 1.0
comment unit quad
element vertex 4
property float x
property float y
property float z
property float u
property float v
element face 1
property list uchar int vertex_indices
end_header
0 0 0 0 0
1 0 0 1 0
1 1 0 1 1
0 1 0 0 1
4 0 1 2 3
`

func TestParsePLY_ASCII(t *testing.T) {
	mesh, err := ParsePLY(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("ParsePLY: %v", err)
	}

	if len(mesh.Vertices) != 4 {
		t.Fatalf("Expected 4 vertices, got %d", len(mesh.Vertices))
	}
	if mesh.Vertices[2] != core.NewVec3(1, 1, 0) {
		t.Errorf("Vertex 2: expected (1,1,0), got %v", mesh.Vertices[2])
	}
	if len(mesh.TexCoords) != 4 || mesh.TexCoords[1] != core.NewVec2(1, 0) {
		t.Errorf("Expected texcoords with (1,0) at index 1, got %v", mesh.TexCoords)
	}

	// The quad is split into a fan around its first corner
	expected := [][3]int{{0, 1, 2}, {0, 2, 3}}
	if len(mesh.Faces) != len(expected) {
		t.Fatalf("Expected %d faces, got %d", len(expected), len(mesh.Faces))
	}
	for i, face := range expected {
		if mesh.Faces[i] != face {
			t.Errorf("Face %d: expected %v, got %v", i, face, mesh.Faces[i])
		}
	}
}

func binaryTriangle(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\nproperty uchar red\n")
	buf.WriteString("element face 1\nproperty list uchar uint vertex_indices\nproperty int flags\nend_header\n")

	points := [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, -1.5}}
	for _, p := range points {
		for _, c := range p {
			if err := binary.Write(&buf, order, math.Float32bits(c)); err != nil {
				t.Fatalf("binary.Write: %v", err)
			}
		}
		buf.WriteByte(200)
	}
	buf.WriteByte(3)
	for _, index := range []uint32{2, 1, 0} {
		if err := binary.Write(&buf, order, index); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
	if err := binary.Write(&buf, order, int32(-7)); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
	return buf.Bytes()
}

func TestParsePLY_Binary(t *testing.T) {
	tests := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			mesh, err := ParsePLY(bytes.NewReader(binaryTriangle(t, tt.order, tt.format)))
			if err != nil {
				t.Fatalf("ParsePLY: %v", err)
			}
			if len(mesh.Vertices) != 3 || mesh.Vertices[2] != core.NewVec3(0, 2, -1.5) {
				t.Errorf("Unexpected vertices %v", mesh.Vertices)
			}
			if len(mesh.TexCoords) != 0 {
				t.Errorf("Expected no texcoords, got %v", mesh.TexCoords)
			}
			if len(mesh.Faces) != 1 || mesh.Faces[0] != [3]int{2, 1, 0} {
				t.Errorf("Unexpected faces %v", mesh.Faces)
			}
		})
	}
}

func TestParsePLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"truncated header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"unsupported format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"unsupported element", "ply\nformat ascii 1.0\nelement edge 2\nend_header\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n"},
		{"two corner face", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n2 0 1\n"},
		{"vertex count larger than the file", "ply\nformat ascii 1.0\nelement vertex 4000000000000000000\nproperty float x\n" +
			"element face 4000000000000000000\nproperty list uchar int vertex_indices\nend_header\n0\n"},
		{"binary count larger than the file", "ply\nformat binary_little_endian 1.0\nelement vertex 4000000000000000000\n" +
			"property float x\nproperty float u\nend_header\n"},
		{"truncated data", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\n" +
			"end_header\n0 0 0\n1 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadPLY_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiQuad), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	mesh, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if len(mesh.Faces) != 2 {
		t.Errorf("Expected 2 faces, got %d", len(mesh.Faces))
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
