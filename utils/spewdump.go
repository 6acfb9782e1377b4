package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/scene"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

func LogDump(a ...interface{}) {
	logrus.Debug(spewConfig.Sdump(a...))
}

// NodeDump is the flattened view of a node used for dumps. Parent links are
// replaced by indentation so spew does not walk the whole graph per node.
type NodeDump struct {
	Name     string
	Kind     string
	UUID     string
	Position [3]float32
	Rotation [4]float32
	Scale    [3]float32
	Visible  bool
	Fixed    bool
}

func dumpNode(n scene.Node) NodeDump {
	o := n.AsObject()
	return NodeDump{
		Name:     o.Name,
		Kind:     n.Kind().Name,
		UUID:     o.UUID.String(),
		Position: o.Position,
		Rotation: [4]float32{o.Rotation.X(), o.Rotation.Y(), o.Rotation.Z(), o.Rotation.W},
		Scale:    o.Scale,
		Visible:  o.Visible,
		Fixed:    o.DisableTransform,
	}
}

// DumpScene writes every node of the tree rooted at root, one spew block per
// node, indented by depth.
func DumpScene(w io.Writer, root scene.Node) error {
	var walk func(n scene.Node, depth int) error
	walk = func(n scene.Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		for _, line := range strings.Split(strings.TrimRight(SDump(dumpNode(n)), "\n"), "\n") {
			if _, err := fmt.Fprintf(w, "%s%s\n", indent, line); err != nil {
				return err
			}
		}
		for _, child := range n.AsObject().Children() {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root, 0)
}
