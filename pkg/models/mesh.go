// Package models provides the scene data the rasterizer consumes: meshes
// with independently-indexed attribute streams, models grouping meshes
// under shared metadata, and a scene owning the loaded model list.
package models

import (
	"github.com/taigrr/swraster/pkg/math3d"
	"github.com/taigrr/swraster/pkg/raster"
)

// Face holds three independent index triples into a mesh's parallel
// vertex/uv/normal arrays — not a single shared vertex table.
type Face struct {
	PosIdx  [3]int
	UVIdx   [3]int
	NormIdx [3]int
}

// Mesh is a set of parallel attribute arrays plus the faces that index
// into them, and the textures a shader samples while drawing it.
type Mesh struct {
	Name string

	Verts   []math3d.Vec3
	UVs     []math3d.Vec2
	Normals []math3d.Vec3
	Faces   []Face

	Diffuse *raster.Image // nil when no diffuse path is given; the Blinn shader then uses flat light gray
	Normal  *raster.Image // optional
	Spec    *raster.Image // optional

	HasNormalMap   bool
	HasSpecularMap bool
	AllowLighting  bool

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh with lighting enabled by default.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:          name,
		AllowLighting: true,
	}
}

// CalculateBounds computes the axis-aligned bounding box over Verts.
func (m *Mesh) CalculateBounds() {
	if len(m.Verts) == 0 {
		return
	}

	m.BoundsMin = m.Verts[0]
	m.BoundsMax = m.Verts[0]

	for _, v := range m.Verts[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles (faces).
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// CalculateNormals computes one flat face normal per face and rebuilds
// Normals/the faces' NormIdx so each face points at its own normal entry.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Faces))
	for i := range m.Faces {
		f := &m.Faces[i]
		v0 := m.Verts[f.PosIdx[0]]
		v1 := m.Verts[f.PosIdx[1]]
		v2 := m.Verts[f.PosIdx[2]]

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Normals[i] = normal
		f.NormIdx = [3]int{i, i, i}
	}
}

// CalculateSmoothNormals computes per-position averaged normals: one
// normal entry per vertex position, accumulated from every adjacent
// face, so lit meshes interpolate smoothly across shared edges.
func (m *Mesh) CalculateSmoothNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Verts))

	for i := range m.Faces {
		f := &m.Faces[i]
		v0 := m.Verts[f.PosIdx[0]]
		v1 := m.Verts[f.PosIdx[1]]
		v2 := m.Verts[f.PosIdx[2]]

		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for k := range 3 {
			m.Normals[f.PosIdx[k]] = m.Normals[f.PosIdx[k]].Add(normal)
		}
		f.NormIdx = f.PosIdx
	}

	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Normalize()
	}
}

// Transform applies a transformation matrix to every vertex position and,
// using the rotation part only, to every normal.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Verts {
		m.Verts[i] = mat.MulVec3(m.Verts[i])
	}
	for i := range m.Normals {
		m.Normals[i] = mat.MulVec3Dir(m.Normals[i]).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh. Textures are shared, not copied,
// since they're read-only during a frame.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:           m.Name,
		Verts:          append([]math3d.Vec3(nil), m.Verts...),
		UVs:            append([]math3d.Vec2(nil), m.UVs...),
		Normals:        append([]math3d.Vec3(nil), m.Normals...),
		Faces:          append([]Face(nil), m.Faces...),
		Diffuse:        m.Diffuse,
		Normal:         m.Normal,
		Spec:           m.Spec,
		HasNormalMap:   m.HasNormalMap,
		HasSpecularMap: m.HasSpecularMap,
		AllowLighting:  m.AllowLighting,
		BoundsMin:      m.BoundsMin,
		BoundsMax:      m.BoundsMax,
	}
	return clone
}

// Model is an ordered sequence of meshes sharing one transform, plus
// display metadata.
type Model struct {
	Name   string
	Author string
	URL    string

	InitialRotation math3d.Vec3
	Background      raster.HSLA
	TextColor       raster.RGBA

	Meshes []Mesh
}

// FaceCount returns the total face count across every mesh in the model.
func (m *Model) FaceCount() int {
	n := 0
	for i := range m.Meshes {
		n += len(m.Meshes[i].Faces)
	}
	return n
}

// Scene owns the loaded model list and tracks which model is active,
// replacing a single global models array and global active-model pointer.
type Scene struct {
	Models    []Model
	activeIdx int
}

// NewScene wraps a loaded model list in a Scene, with the first model
// active.
func NewScene(models []Model) *Scene {
	return &Scene{Models: models}
}

// Active returns the currently active model, or nil if the scene has no
// models.
func (s *Scene) Active() *Model {
	if len(s.Models) == 0 {
		return nil
	}
	return &s.Models[s.activeIdx]
}

// ActiveIndex returns the index of the active model.
func (s *Scene) ActiveIndex() int {
	return s.activeIdx
}

// SetActive selects model i as active, wrapping i into [0, len(Models)).
func (s *Scene) SetActive(i int) {
	if len(s.Models) == 0 {
		return
	}
	i %= len(s.Models)
	if i < 0 {
		i += len(s.Models)
	}
	s.activeIdx = i
}
