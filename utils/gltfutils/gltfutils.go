// Package gltfutils exports the scene graph hierarchy as a glTF document.
package gltfutils

import (
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/sceneditor/scene"
)

// Extras is stored on every exported node.
type Extras struct {
	UUID string `json:"uuid"`
	Kind string `json:"kind"`
}

// GLTFCacher remembers which glTF node a scene node was exported to.
type GLTFCacher struct {
	Doc   *gltf.Document
	cache map[uuid.UUID]uint32
}

func NewGLTFCacher() *GLTFCacher {
	return &GLTFCacher{
		Doc:   gltf.NewDocument(),
		cache: make(map[uuid.UUID]uint32),
	}
}

func (gc *GLTFCacher) AddCache(id uuid.UUID, node uint32) {
	gc.cache[id] = node
}

func (gc *GLTFCacher) GetCached(id uuid.UUID) (uint32, bool) {
	node, ok := gc.cache[id]
	return node, ok
}

func (gc *GLTFCacher) exportNode(n scene.Node) uint32 {
	o := n.AsObject()
	node := &gltf.Node{
		Name:        o.Name,
		Translation: o.Position,
		Rotation:    o.Rotation.V.Vec4(o.Rotation.W),
		Scale:       o.Scale,
		Extras:      &Extras{UUID: o.UUID.String(), Kind: n.Kind().Name},
	}

	index := uint32(len(gc.Doc.Nodes))
	gc.Doc.Nodes = append(gc.Doc.Nodes, node)
	gc.AddCache(o.UUID, index)

	for _, child := range o.Children() {
		node.Children = append(node.Children, gc.exportNode(child))
	}
	return index
}

// ExportScene writes one glTF node per scene node in pre-order. The root
// itself is not exported, its children become the roots of the glTF scene.
func ExportScene(root scene.Node) *GLTFCacher {
	gc := NewGLTFCacher()
	gc.Doc.Scenes[0].Name = root.AsObject().Name
	for _, child := range root.AsObject().Children() {
		gc.Doc.Scenes[0].Nodes = append(gc.Doc.Scenes[0].Nodes, gc.exportNode(child))
	}
	return gc
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrap(encoder.Encode(doc), "Failed to encode glb")
}
