package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// maxPreallocate bounds the slice capacity reserved from header counts
const maxPreallocate = 1 << 20

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty

	HasTexCoords bool
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYMesh contains the triangles read from a PLY file. Polygons with more
// than three corners are split into a fan around their first corner.
type PLYMesh struct {
	Vertices  []core.Vec3
	TexCoords []core.Vec2 // Per-vertex (u, v); empty if the file has none
	Faces     [][3]int    // 0-based vertex indices
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()
	return ParsePLY(file)
}

// ParsePLY reads a PLY mesh in ASCII or binary format
func ParsePLY(r io.Reader) (*PLYMesh, error) {
	reader := bufio.NewReaderSize(r, 1<<16)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var body plyBody
	switch header.Format {
	case "ascii":
		body = &asciiBody{reader: reader}
	case "binary_little_endian":
		body = &binaryBody{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		body = &binaryBody{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format: %q", header.Format)
	}

	mesh, err := readPLYBody(header, body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %w", err)
	}
	return mesh, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string
	first := true

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended early: %w", err)
		}
		line := strings.TrimSpace(raw)
		if first {
			if line != "ply" {
				return nil, fmt.Errorf("missing ply magic number")
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("unsupported element %q", currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				switch prop.Name {
				case "u", "s", "texture_u", "v", "t", "texture_v":
					header.HasTexCoords = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

// plyBody reads scalar values from the element data, whatever its encoding
type plyBody interface {
	scalar(dataType string) (float64, error)
}

type asciiBody struct {
	reader *bufio.Reader
}

// scalar reads the next whitespace-separated token
func (a *asciiBody) scalar(string) (float64, error) {
	var token strings.Builder
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if err == io.EOF && token.Len() > 0 {
				break
			}
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if token.Len() > 0 {
				break
			}
			continue
		}
		token.WriteByte(b)
	}
	return strconv.ParseFloat(token.String(), 64)
}

type binaryBody struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryBody) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default: // double, float64
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// readPLYBody reads the vertex element followed by the face element
func readPLYBody(header *PLYHeader, body plyBody) (*PLYMesh, error) {
	// Header counts are untrusted; a short file fails on read instead
	vertexCap := min(header.VertexCount, maxPreallocate)
	mesh := &PLYMesh{
		Vertices: make([]core.Vec3, 0, vertexCap),
		Faces:    make([][3]int, 0, min(header.FaceCount, maxPreallocate)),
	}
	if header.HasTexCoords {
		mesh.TexCoords = make([]core.Vec2, 0, vertexCap)
	}

	for i := 0; i < header.VertexCount; i++ {
		var position core.Vec3
		var texcoord core.Vec2
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if _, err := readPLYList(body, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			value, err := body.scalar(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position.X = value
			case "y":
				position.Y = value
			case "z":
				position.Z = value
			case "u", "s", "texture_u":
				texcoord.X = value
			case "v", "t", "texture_v":
				texcoord.Y = value
			}
		}
		mesh.Vertices = append(mesh.Vertices, position)
		if header.HasTexCoords {
			mesh.TexCoords = append(mesh.TexCoords, texcoord)
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList {
				if _, err := body.scalar(prop.Type); err != nil {
					return nil, fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}
			values, err := readPLYList(body, prop)
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(values) < 3 {
				return nil, fmt.Errorf("face %d has %d vertices", i, len(values))
			}
			for k := 1; k+1 < len(values); k++ {
				face := [3]int{int(values[0]), int(values[k]), int(values[k+1])}
				for _, index := range face {
					if index < 0 || index >= header.VertexCount {
						return nil, fmt.Errorf("face %d references vertex %d of %d", i, index, header.VertexCount)
					}
				}
				mesh.Faces = append(mesh.Faces, face)
			}
		}
	}

	return mesh, nil
}

// readPLYList reads a count followed by that many values
func readPLYList(body plyBody, prop PLYProperty) ([]float64, error) {
	count, err := body.scalar(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("list %s count: %w", prop.Name, err)
	}
	if count < 0 || count > 1<<16 {
		return nil, fmt.Errorf("list %s has invalid length %g", prop.Name, count)
	}
	values := make([]float64, int(count))
	for i := range values {
		if values[i], err = body.scalar(prop.DataType); err != nil {
			return nil, fmt.Errorf("list %s item %d: %w", prop.Name, i, err)
		}
	}
	return values, nil
}
