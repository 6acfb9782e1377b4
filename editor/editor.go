// Package editor applies every change to the scene graph, either directly or
// through undoable commands recorded in a History.
package editor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/config"
	"github.com/mogaika/sceneditor/events"
	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

var log = logrus.WithField("pkg", "editor")

var (
	ErrDetached          = errors.New("node is not attached to the scene")
	ErrNoParent          = errors.New("destination parent is missing")
	ErrSiblingNotFound   = errors.New("sibling is not a child of the parent")
	ErrIndexInconsistent = errors.New("node index is inconsistent with the scene graph")
	ErrAlreadyAttached   = errors.New("node is already attached")
	ErrCycle             = errors.New("node cannot be moved below itself")
)

// Flag changes how an operation runs. Operations take any number of flags.
type Flag uint8

const (
	// NoHistory performs the mutation directly instead of recording a command.
	NoHistory Flag = 1 << iota
	// NoEvent suppresses notifications, for steps inside a larger operation.
	NoEvent
	// NoSelect keeps the current selection after add, duplicate and reparent.
	NoSelect
	// NoUpdateRoots skips recomputing the selected transform roots.
	NoUpdateRoots
	// UniqueName renames added nodes so their names do not collide.
	UniqueName
)

func flagsOf(flags []Flag) Flag {
	var f Flag
	for _, flag := range flags {
		f |= flag
	}
	return f
}

func (f Flag) has(flag Flag) bool { return f&flag != 0 }

// ObjectsChange is the payload of Editor.ObjectsChanged. Property is empty
// when several properties changed at once.
type ObjectsChange struct {
	Nodes    []scene.Node
	Property string
}

type Editor struct {
	scene   *scene.Scene
	camera  *scene.Camera
	history *history.History

	selected               []scene.Node
	selectedTransformRoots []scene.Node
	nodes                  []scene.Node

	playing bool

	SelectionChanged  events.Signal[[]scene.Node]
	SceneGraphChanged events.Signal[*scene.Scene]
	ObjectsChanged    events.Signal[ObjectsChange]
}

type Option func(*options)

type options struct {
	history []history.Option
	scene   *scene.Scene
}

// WithHistoryOptions passes options to the editor's History.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(o *options) { o.history = append(o.history, opts...) }
}

// WithConfig applies the history section of c.
func WithConfig(c config.Config) Option {
	return WithHistoryOptions(
		history.WithWindow(c.History.CoalesceWindow),
		history.WithLimit(c.History.Limit),
	)
}

// WithScene starts the editor on an existing scene instead of an empty one.
func WithScene(s *scene.Scene) Option {
	return func(o *options) { o.scene = s }
}

func New(opts ...Option) *Editor {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.scene == nil {
		o.scene = scene.NewScene("Scene")
	}

	e := &Editor{
		camera:  scene.NewCamera("Camera"),
		history: history.New(o.history...),
	}
	e.camera.Position = mgl32.Vec3{0, 5, 10}
	e.camera.UpdateMatrixWorld()
	e.attachScene(o.scene)
	return e
}

func (e *Editor) attachScene(s *scene.Scene) {
	e.scene = s
	e.nodes = e.nodes[:0]
	scene.Traverse(s, func(n scene.Node) bool {
		e.nodes = append(e.nodes, n)
		n.OnAdd()
		return true
	})
	s.UpdateMatrixWorld()
	e.selected = nil
	e.updateTransformRoots()
}

// LoadScene replaces the whole scene. Loading is not undoable, so the
// history is cleared.
func (e *Editor) LoadScene(s *scene.Scene) {
	for i := len(e.selected) - 1; i >= 0; i-- {
		e.selected[i].OnDeselect()
	}
	for _, n := range e.nodes {
		n.OnRemove()
	}
	e.attachScene(s)
	e.history.Clear()
	e.emitSceneGraphChanged()
	e.emitSelectionChanged()
}

func (e *Editor) Scene() *scene.Scene        { return e.scene }
func (e *Editor) Camera() *scene.Camera      { return e.camera }
func (e *Editor) History() *history.History { return e.history }

// Nodes returns a copy of the flat index of attached nodes, Scene first.
func (e *Editor) Nodes() []scene.Node { return append([]scene.Node(nil), e.nodes...) }

func (e *Editor) HasNode(n scene.Node) bool { return indexOf(e.nodes, n) >= 0 }

func (e *Editor) FindByName(name string) scene.Node {
	for _, n := range e.nodes {
		if n.AsObject().Name == name {
			return n
		}
	}
	return nil
}

func (e *Editor) FindByUUID(id string) scene.Node {
	for _, n := range e.nodes {
		if n.AsObject().UUID.String() == id {
			return n
		}
	}
	if e.camera.UUID.String() == id {
		return e.camera
	}
	return nil
}

// CanAdd reports whether a node of kind k may be added to the scene now.
func (e *Editor) CanAdd(k *scene.Kind) bool { return k.CanAddTo(e.scene) }

// SetPlaying toggles live playback. History cannot be undone or redone while
// playing.
func (e *Editor) SetPlaying(playing bool) {
	e.playing = playing
	if playing {
		e.history.Disable()
	} else {
		e.history.Enable()
	}
}

func (e *Editor) Playing() bool { return e.playing }

func (e *Editor) Undo() (history.Command, error) { return e.history.Undo() }

func (e *Editor) Redo() (history.Command, error) { return e.history.Redo() }

// ExecuteBatch records cmds as a single undo step.
func (e *Editor) ExecuteBatch(name string, cmds ...history.Command) error {
	return e.history.Execute(history.NewMulti(name, cmds...))
}

// run executes commands that cannot fail their preconditions.
func (e *Editor) run(cmd history.Command) {
	if err := e.history.Execute(cmd); err != nil {
		log.WithError(err).Errorf("%v failed", cmd)
	}
}

func (e *Editor) emitSelectionChanged() {
	e.SelectionChanged.Emit(e.Selected())
}

func (e *Editor) emitSceneGraphChanged() {
	e.SceneGraphChanged.Emit(e.scene)
}

func (e *Editor) emitObjectsChanged(nodes []scene.Node, property string) {
	e.ObjectsChanged.Emit(ObjectsChange{
		Nodes:    append([]scene.Node(nil), nodes...),
		Property: property,
	})
}

func indexOf(nodes []scene.Node, n scene.Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func contains(nodes []scene.Node, n scene.Node) bool { return indexOf(nodes, n) >= 0 }

func sameNodes(a, b []scene.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nodeName(n scene.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind().Name + " " + `"` + n.AsObject().Name + `"`
}

func nodeNames(nodes []scene.Node) string {
	if len(nodes) == 1 {
		return nodeName(nodes[0])
	}
	s := ""
	for i, n := range nodes {
		if i != 0 {
			s += ", "
		}
		s += nodeName(n)
	}
	return "[" + s + "]"
}
