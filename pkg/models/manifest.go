package models

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/raster"
)

// LoadManifest reads the binary model manifest at path: a model count
// followed by, per model, its metadata and mesh list. This is the one
// asset-loading format the core pack doesn't hand off to a third-party
// decoder — it's a bespoke fixed layout (see DESIGN.md) read with
// encoding/binary, mirroring the original loader's fread-based approach.
//
// Layout (all multi-byte integers and floats little-endian):
//
//	uint32            model count
//	per model:
//	  string          name, author, url   (uint32 length prefix + utf8 bytes)
//	  3x float32      initial rotation (degrees, xyz)
//	  4x float32      background hsla
//	  4x uint8        text color rgba
//	  uint32          mesh count
//	  per mesh:
//	    string        name
//	    uint32 + 3x float32 each   vertex positions
//	    uint32 + 2x float32 each   uvs
//	    uint32 + 3x float32 each   normals
//	    uint32 + 9x int32 each     faces (posIdx[3], uvIdx[3], normIdx[3])
//	    string        diffuse texture path
//	    uint8         has normal map; if nonzero, string normal texture path
//	    uint8         has specular map; if nonzero, string spec texture path
//	    uint8         allow lighting
func LoadManifest(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("models: open manifest: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	modelCount, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("models: read model count: %w", err)
	}

	modelList := make([]Model, modelCount)
	for i := range modelList {
		m, err := readModel(r)
		if err != nil {
			return nil, fmt.Errorf("models: read model %d: %w", i, err)
		}
		modelList[i] = m
	}

	return NewScene(modelList), nil
}

func readModel(r io.Reader) (Model, error) {
	var m Model
	var err error

	if m.Name, err = readString(r); err != nil {
		return m, err
	}
	if m.Author, err = readString(r); err != nil {
		return m, err
	}
	if m.URL, err = readString(r); err != nil {
		return m, err
	}

	rot, err := readFloat32Vec3(r)
	if err != nil {
		return m, err
	}
	m.InitialRotation = rot

	hsla, err := readFloat32x4(r)
	if err != nil {
		return m, err
	}
	m.Background = raster.HSLA{H: float64(hsla[0]), S: float64(hsla[1]), L: float64(hsla[2]), A: float64(hsla[3])}

	var rgba [4]byte
	if _, err := io.ReadFull(r, rgba[:]); err != nil {
		return m, fmt.Errorf("read text color: %w", err)
	}
	m.TextColor = raster.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}

	meshCount, err := readU32(r)
	if err != nil {
		return m, err
	}
	m.Meshes = make([]Mesh, meshCount)
	for i := range m.Meshes {
		mesh, err := readMesh(r)
		if err != nil {
			return m, fmt.Errorf("read mesh %d: %w", i, err)
		}
		m.Meshes[i] = mesh
	}

	return m, nil
}

func readMesh(r io.Reader) (Mesh, error) {
	mesh := *NewMesh("")
	var err error

	if mesh.Name, err = readString(r); err != nil {
		return mesh, err
	}

	vertCount, err := readU32(r)
	if err != nil {
		return mesh, err
	}
	mesh.Verts = make([]math3d.Vec3, vertCount)
	for i := range mesh.Verts {
		if mesh.Verts[i], err = readFloat32Vec3(r); err != nil {
			return mesh, err
		}
	}

	uvCount, err := readU32(r)
	if err != nil {
		return mesh, err
	}
	mesh.UVs = make([]math3d.Vec2, uvCount)
	for i := range mesh.UVs {
		uv, err := readFloat32x2(r)
		if err != nil {
			return mesh, err
		}
		mesh.UVs[i] = math3d.V2(float64(uv[0]), float64(uv[1]))
	}

	normCount, err := readU32(r)
	if err != nil {
		return mesh, err
	}
	mesh.Normals = make([]math3d.Vec3, normCount)
	for i := range mesh.Normals {
		if mesh.Normals[i], err = readFloat32Vec3(r); err != nil {
			return mesh, err
		}
	}

	faceCount, err := readU32(r)
	if err != nil {
		return mesh, err
	}
	mesh.Faces = make([]Face, faceCount)
	for i := range mesh.Faces {
		var idx [9]int32
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return mesh, fmt.Errorf("read face %d: %w", i, err)
		}
		mesh.Faces[i] = Face{
			PosIdx:  [3]int{int(idx[0]), int(idx[1]), int(idx[2])},
			UVIdx:   [3]int{int(idx[3]), int(idx[4]), int(idx[5])},
			NormIdx: [3]int{int(idx[6]), int(idx[7]), int(idx[8])},
		}
	}

	diffusePath, err := readString(r)
	if err != nil {
		return mesh, err
	}
	if mesh.Diffuse, err = loadTextureRelative(diffusePath); err != nil {
		return mesh, fmt.Errorf("load diffuse %q: %w", diffusePath, err)
	}

	hasNormal, err := readBool(r)
	if err != nil {
		return mesh, err
	}
	mesh.HasNormalMap = hasNormal
	if hasNormal {
		p, err := readString(r)
		if err != nil {
			return mesh, err
		}
		if mesh.Normal, err = loadTextureRelative(p); err != nil {
			return mesh, fmt.Errorf("load normal map %q: %w", p, err)
		}
	}

	hasSpec, err := readBool(r)
	if err != nil {
		return mesh, err
	}
	mesh.HasSpecularMap = hasSpec
	if hasSpec {
		p, err := readString(r)
		if err != nil {
			return mesh, err
		}
		if mesh.Spec, err = loadTextureRelative(p); err != nil {
			return mesh, fmt.Errorf("load spec map %q: %w", p, err)
		}
	}

	allowLighting, err := readBool(r)
	if err != nil {
		return mesh, err
	}
	mesh.AllowLighting = allowLighting

	return mesh, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", fmt.Errorf("read string length: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read string bytes: %w", err)
	}
	return string(buf), nil
}

func readFloat32x2(r io.Reader) ([2]float32, error) {
	var v [2]float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readFloat32x4(r io.Reader) ([4]float32, error) {
	var v [4]float32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readFloat32Vec3(r io.Reader) (math3d.Vec3, error) {
	var v [3]float32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2])), nil
}
