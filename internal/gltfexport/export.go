// Package gltfexport converts decoded MDM models to glTF 2.0 documents.
package gltfexport

import (
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"soldak-mdm/internal/mdm"
)

// MaxJoints bounds the placeholder skeleton. Bone indices outside
// [0, MaxJoints) are bound to joint 0.
const MaxJoints = 1024

// Export builds a document with one mesh holding one primitive per surface.
// Each surface gets its own material so consumers can assign textures per
// face group.
//
// The single decoded bone influence of each vertex is written as
// JOINTS_0/WEIGHTS_0 with full weight. MDM files carry no skeleton, so the
// mesh node is skinned to placeholder joint nodes "bone_N" with identity
// bind poses, one per bone index up to the largest one used; a skeleton
// loaded elsewhere can be retargeted onto them by name.
//
// Normals and tangents are normalized; degenerate or non-finite ones fall
// back to +Z and +X. Non-finite positions are rejected.
func Export(m *mdm.Model, name string) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	mesh := &gltf.Mesh{Name: name}
	maxBone := 0

	for _, s := range m.Surfaces {
		if len(s.Vertices) == 0 || len(s.Triangles) == 0 {
			continue
		}
		n := len(s.Vertices)
		positions := make([][3]float32, n)
		normals := make([][3]float32, n)
		tangents := make([][4]float32, n)
		uvs := make([][2]float32, n)
		joints := make([][4]uint16, n)
		weights := make([][4]float32, n)

		for i := range s.Vertices {
			v := &s.Vertices[i]
			for _, c := range v.Position {
				if math32.IsNaN(c) || math32.IsInf(c, 0) {
					return nil, fmt.Errorf("gltfexport: surface %d: vertex %d has non-finite position %v", s.Index, i, v.Position)
				}
			}
			positions[i] = v.Position
			normals[i] = unitOr(v.Normal, mgl32.Vec3{0, 0, 1})
			t := unitOr(v.Tangent.Vec3(), mgl32.Vec3{1, 0, 0})
			tangents[i] = [4]float32{t[0], t[1], t[2], v.Handedness()}
			uvs[i] = v.UV

			weights[i] = [4]float32{1, 0, 0, 0}
			if len(v.Weights) > 0 && v.Weights[0].Bone >= 0 && v.Weights[0].Bone < MaxJoints {
				b := int(v.Weights[0].Bone)
				joints[i][0] = uint16(b)
				if b > maxBone {
					maxBone = b
				}
			}
		}

		indices := make([]uint32, 0, len(s.Triangles)*3)
		for _, t := range s.Triangles {
			if t[0] < 0 || t[1] < 0 || t[2] < 0 || t[0] >= n || t[1] >= n || t[2] >= n {
				return nil, fmt.Errorf("gltfexport: surface %d: triangle %v out of range", s.Index, t)
			}
			indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
		}

		attributes := map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, positions),
			"NORMAL":     modeler.WriteNormal(doc, normals),
			"TANGENT":    modeler.WriteTangent(doc, tangents),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
			"JOINTS_0":   modeler.WriteJoints(doc, joints),
			"WEIGHTS_0":  modeler.WriteWeights(doc, weights),
		}
		indicesAccessor := modeler.WriteIndices(doc, indices)

		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        fmt.Sprintf("%s_surface%d", name, s.Index),
			DoubleSided: true,
		})
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(indicesAccessor),
			Attributes: attributes,
			Material:   gltf.Index(uint32(len(doc.Materials) - 1)),
		})
	}

	if len(mesh.Primitives) == 0 {
		return doc, nil
	}

	doc.Meshes = append(doc.Meshes, mesh)
	meshNode := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		Skin: gltf.Index(writeSkeleton(doc, name, maxBone)),
	})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, meshNode)
	return doc, nil
}

// writeSkeleton adds a root node with joints bone_0..bone_maxBone as
// children, plus a skin over them, and returns the skin index.
func writeSkeleton(doc *gltf.Document, name string, maxBone int) uint32 {
	root := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name + "_skeleton"})
	skin := &gltf.Skin{Name: name, Skeleton: gltf.Index(root)}
	for b := 0; b <= maxBone; b++ {
		j := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: fmt.Sprintf("bone_%d", b)})
		skin.Joints = append(skin.Joints, j)
	}
	doc.Nodes[root].Children = skin.Joints
	doc.Skins = append(doc.Skins, skin)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, root)
	return uint32(len(doc.Skins) - 1)
}

func unitOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > 1e-6) || math32.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// WriteBinary encodes doc as GLB.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
