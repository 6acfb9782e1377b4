package editor

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/sceneditor/scene"
)

type SpaceKind uint8

const (
	// SpaceLocal interprets values in the parent frame of each node.
	SpaceLocal SpaceKind = iota
	SpaceWorld
	// SpaceLocalSelection uses the parent frame of the active object for
	// every node.
	SpaceLocalSelection
	// SpaceFrame uses Space.Matrix.
	SpaceFrame
)

// Space is the reference frame a transform value is given in. Spaces are
// comparable, which commands rely on when deciding whether to coalesce.
type Space struct {
	Kind   SpaceKind
	Matrix mgl32.Mat4
}

var (
	Local          = Space{Kind: SpaceLocal}
	World          = Space{Kind: SpaceWorld}
	LocalSelection = Space{Kind: SpaceLocalSelection}
)

// Frame returns a space defined by an explicit matrix.
func Frame(m mgl32.Mat4) Space { return Space{Kind: SpaceFrame, Matrix: m} }

func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(s) {
	case "", "local":
		return Local, nil
	case "world":
		return World, nil
	case "selection", "localselection":
		return LocalSelection, nil
	}
	return Space{}, errors.Errorf("Unknown transform space %q", s)
}

func (s Space) String() string {
	switch s.Kind {
	case SpaceLocal:
		return "local"
	case SpaceWorld:
		return "world"
	case SpaceLocalSelection:
		return "selection"
	case SpaceFrame:
		return fmt.Sprintf("frame%v", s.Matrix.Col(3).Vec3())
	}
	return fmt.Sprintf("space(%d)", s.Kind)
}

// resolveSpace pins LocalSelection to the active object's parent frame as it
// is now, so every node of one call shares it.
func (e *Editor) resolveSpace(s Space) Space {
	if s.Kind != SpaceLocalSelection {
		return s
	}
	active := e.ActiveObject()
	if active == nil {
		return World
	}
	return Frame(scene.ParentMatrix(active))
}

// frameMatrix is the world matrix of the frame s stands for when editing n.
func (e *Editor) frameMatrix(s Space, n scene.Node) mgl32.Mat4 {
	switch s.Kind {
	case SpaceLocal:
		return scene.ParentMatrix(n)
	case SpaceLocalSelection:
		return e.frameMatrix(e.resolveSpace(s), n)
	case SpaceFrame:
		return s.Matrix
	}
	return mgl32.Ident4()
}
