package models

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/raster"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file into a single Mesh, pulling in its
// first material's base color texture as the diffuse map when present.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.CalculateNormals && len(mesh.Normals) == 0 {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	if err := l.loadMaterialTextures(doc, mesh); err != nil {
		return nil, fmt.Errorf("load material textures: %w", err)
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh. Every primitive's
// attributes share one index space (glTF accessors are already parallel per
// vertex), so each face's PosIdx/UVIdx/NormIdx are identical.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Verts)
		mesh.Verts = append(mesh.Verts, positions...)

		for i := range positions {
			if i < len(normals) {
				mesh.Normals = append(mesh.Normals, normals[i])
			} else {
				mesh.Normals = append(mesh.Normals, math3d.Vec3{})
			}
			if i < len(uvs) {
				// glTF uses top-left UV origin; flip V for bottom-left.
				mesh.UVs = append(mesh.UVs, math3d.V2(uvs[i].X, 1.0-uvs[i].Y))
			} else {
				mesh.UVs = append(mesh.UVs, math3d.Vec2{})
			}
		}

		// glTF winds front faces counter-clockwise, which is the winding
		// DrawMesh's backface test keeps: its (v1-v0)x(v2-v0) normal
		// points toward the eye. Indices are kept in their glTF order.
		addFace := func(a, b, c int) {
			idx := [3]int{base + a, base + b, base + c}
			mesh.Faces = append(mesh.Faces, Face{PosIdx: idx, UVIdx: idx, NormIdx: idx})
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				addFace(indices[i], indices[i+1], indices[i+2])
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				addFace(i, i+1, i+2)
			}
		}
	}

	return nil
}

// loadMaterialTextures pulls the first material's base color, normal, and
// metallic-roughness textures (if any) into the mesh, the last one as the
// specular map.
func (l *GLTFLoader) loadMaterialTextures(doc *gltf.Document, mesh *Mesh) error {
	if len(doc.Materials) == 0 {
		return nil
	}
	mat := doc.Materials[0]

	if mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.BaseColorTexture != nil {
		img, err := loadGLTFImage(doc, doc.Textures[mat.PBRMetallicRoughness.BaseColorTexture.Index].Source)
		if err != nil {
			return fmt.Errorf("base color texture: %w", err)
		}
		mesh.Diffuse = img
	}

	if mat.NormalTexture != nil {
		img, err := loadGLTFImage(doc, doc.Textures[mat.NormalTexture.Index].Source)
		if err != nil {
			return fmt.Errorf("normal texture: %w", err)
		}
		mesh.Normal = img
		mesh.HasNormalMap = true
	}

	if mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.MetallicRoughnessTexture != nil {
		img, err := loadGLTFImage(doc, doc.Textures[mat.PBRMetallicRoughness.MetallicRoughnessTexture.Index].Source)
		if err != nil {
			return fmt.Errorf("metallic-roughness texture: %w", err)
		}
		mesh.Spec = img
		mesh.HasSpecularMap = true
	}

	return nil
}

func loadGLTFImage(doc *gltf.Document, imageIdx *uint32) (*raster.Image, error) {
	if imageIdx == nil {
		return nil, fmt.Errorf("texture has no source image")
	}
	img := doc.Images[*imageIdx]

	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, fmt.Errorf("image buffer view has no data")
		}
		data := buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		return decodeTextureBytes(data)
	}

	if img.URI != "" {
		data, err := os.ReadFile(img.URI)
		if err != nil {
			return nil, fmt.Errorf("read external image %q: %w", img.URI, err)
		}
		return decodeTextureBytes(data)
	}

	return nil, fmt.Errorf("image has neither buffer view nor uri")
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	var bufData []byte
	if buffer.URI == "" {
		bufData = buffer.Data
	} else {
		return nil, fmt.Errorf("external buffers not supported yet")
	}

	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return float32frombits(bits)
}

func float32frombits(b uint32) float32 {
	return *(*float32)(unsafe.Pointer(&b))
}
