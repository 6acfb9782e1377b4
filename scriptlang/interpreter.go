package scriptlang

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/sceneditor/editor"
	"github.com/mogaika/sceneditor/scene"
	"github.com/mogaika/sceneditor/utils"
)

var log = logrus.WithField("pkg", "scriptlang")

var ErrUnknownLabel = errors.New("unknown label")

// Interpreter runs statements against an editor. Labels survive between
// runs, so a script can be fed line by line.
type Interpreter struct {
	labels map[string]scene.Node
}

func NewInterpreter() *Interpreter {
	return &Interpreter{labels: make(map[string]scene.Node)}
}

// Label returns the node bound to name, without the leading '$'.
func (in *Interpreter) Label(name string) scene.Node {
	return in.labels[name]
}

// Run executes statements in order through the editor history and stops at
// the first failing one.
func (in *Interpreter) Run(e *editor.Editor, statements []*Statement) error {
	for _, st := range statements {
		log.Debugf("line %d: %v", st.Line, st)
		if err := in.exec(e, st); err != nil {
			return errors.Wrapf(err, "line %d %q", st.Line, st.String())
		}
	}
	return nil
}

// RunScript parses and runs text.
func (in *Interpreter) RunScript(e *editor.Editor, text []byte) error {
	statements, err := Parse(text)
	if err != nil {
		return err
	}
	return in.Run(e, statements)
}

type args struct {
	in   *Interpreter
	e    *editor.Editor
	list []interface{}
	pos  int
}

func (a *args) more() bool { return a.pos < len(a.list) }

func (a *args) peek() interface{} {
	if !a.more() {
		return nil
	}
	return a.list[a.pos]
}

func (a *args) next(what string) (interface{}, error) {
	if !a.more() {
		return nil, errors.Errorf("Missing %s", what)
	}
	a.pos++
	return a.list[a.pos-1], nil
}

func (a *args) label() (*Label, error) {
	v, err := a.next("label")
	if err != nil {
		return nil, err
	}
	l, ok := v.(*Label)
	if !ok {
		return nil, errors.Errorf("Expected label, got %v", v)
	}
	return l, nil
}

func (a *args) node() (scene.Node, error) {
	l, err := a.label()
	if err != nil {
		return nil, err
	}
	return a.resolve(l)
}

func (a *args) resolve(l *Label) (scene.Node, error) {
	switch l.Name {
	case "scene":
		return a.e.Scene(), nil
	case "camera":
		return a.e.Camera(), nil
	}
	n, ok := a.in.labels[l.Name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLabel, "%v", l)
	}
	return n, nil
}

// optionalNode consumes a label if one follows.
func (a *args) optionalNode() (scene.Node, error) {
	if _, ok := a.peek().(*Label); !ok {
		return nil, nil
	}
	return a.node()
}

// nodes consumes labels up to the first non-label argument.
func (a *args) nodes() ([]scene.Node, error) {
	var result []scene.Node
	for {
		l, ok := a.peek().(*Label)
		if !ok {
			break
		}
		a.pos++
		n, err := a.resolve(l)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if len(result) == 0 {
		return nil, errors.Errorf("Missing label")
	}
	return result, nil
}

func (a *args) word(what string) (string, error) {
	v, err := a.next(what)
	if err != nil {
		return "", err
	}
	w, ok := v.(Word)
	if !ok {
		return "", errors.Errorf("Expected %s, got %v", what, v)
	}
	return string(w), nil
}

func (a *args) str(what string) (string, error) {
	v, err := a.next(what)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("Expected quoted %s, got %v", what, v)
	}
	return s, nil
}

func number(v interface{}) (float32, bool) {
	switch n := v.(type) {
	case int32:
		return float32(n), true
	case float32:
		return n, true
	}
	return 0, false
}

func (a *args) float() (float32, error) {
	v, err := a.next("number")
	if err != nil {
		return 0, err
	}
	f, ok := number(v)
	if !ok {
		return 0, errors.Errorf("Expected number, got %v", v)
	}
	return f, nil
}

func (a *args) vec3() (v mgl32.Vec3, err error) {
	for i := range v {
		if v[i], err = a.float(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (a *args) space() (editor.Space, error) {
	if !a.more() {
		return editor.Local, nil
	}
	w, err := a.word("space")
	if err != nil {
		return editor.Space{}, err
	}
	return editor.ParseSpace(w)
}

// bindings consumes an optional "as $a $b..." tail.
func (a *args) bindings() ([]*Label, error) {
	if w, ok := a.peek().(Word); !ok || w != "as" {
		return nil, nil
	}
	a.pos++
	var result []*Label
	for a.more() {
		l, err := a.label()
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, nil
}

// value converts the remaining arguments of a set statement.
func (a *args) value() (interface{}, error) {
	rest := a.list[a.pos:]
	a.pos = len(a.list)
	switch len(rest) {
	case 0:
		return nil, errors.Errorf("Missing value")
	case 1:
		switch v := rest[0].(type) {
		case Word:
			switch v {
			case "true":
				return true, nil
			case "false":
				return false, nil
			case "nil":
				return nil, nil
			}
			return string(v), nil
		case *Label:
			return a.resolve(v)
		}
		return rest[0], nil
	case 3:
		var v mgl32.Vec3
		for i, r := range rest {
			f, ok := number(r)
			if !ok {
				return nil, errors.Errorf("Expected number, got %v", r)
			}
			v[i] = f
		}
		return v, nil
	}
	return nil, errors.Errorf("Cannot use %d values", len(rest))
}

func (a *args) done() error {
	if a.more() {
		return errors.Errorf("Unexpected arguments %v", a.list[a.pos:])
	}
	return nil
}

func (in *Interpreter) bind(labels []*Label, nodes []scene.Node) error {
	if len(labels) > len(nodes) {
		return errors.Errorf("Cannot bind %d labels to %d nodes", len(labels), len(nodes))
	}
	for i, l := range labels {
		in.labels[l.Name] = nodes[i]
	}
	return nil
}

func (in *Interpreter) exec(e *editor.Editor, st *Statement) error {
	a := &args{in: in, e: e, list: st.Arguments}

	switch st.Op {
	case "add":
		l, err := a.label()
		if err != nil {
			return err
		}
		kind, err := a.word("kind")
		if err != nil {
			return err
		}
		name, err := a.str("name")
		if err != nil {
			return err
		}
		parent, err := a.optionalNode()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		n, err := scene.NewNode(kind, name)
		if err != nil {
			return err
		}
		if !e.CanAdd(n.Kind()) {
			return errors.Errorf("Scene already has a %s", kind)
		}
		if err := e.AddObject(n, parent, nil); err != nil {
			return err
		}
		in.labels[l.Name] = n
	case "remove":
		nodes, err := a.nodes()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		return e.RemoveMultipleObjects(nodes)
	case "duplicate":
		nodes, err := a.nodes()
		if err != nil {
			return err
		}
		labels, err := a.bindings()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		clones, err := e.DuplicateMultiple(nodes, nil, nil)
		if err != nil {
			return err
		}
		return in.bind(labels, clones)
	case "select", "deselect":
		nodes, err := a.nodes()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		if st.Op == "select" {
			e.SelectMultiple(nodes)
		} else {
			e.DeselectMultiple(nodes)
		}
	case "toggle":
		n, err := a.node()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		e.Toggle(n)
	case "selectall", "deselectall":
		if err := a.done(); err != nil {
			return err
		}
		if st.Op == "selectall" {
			e.SelectAll()
		} else {
			e.DeselectAll()
		}
	case "reparent":
		n, err := a.node()
		if err != nil {
			return err
		}
		parent, err := a.node()
		if err != nil {
			return err
		}
		before, err := a.optionalNode()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		return e.Reparent(n, parent, before)
	case "position", "translate", "scale", "setscale", "euler":
		n, err := a.node()
		if err != nil {
			return err
		}
		v, err := a.vec3()
		if err != nil {
			return err
		}
		space, err := a.space()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		switch st.Op {
		case "position":
			return e.SetPosition(n, v, space)
		case "translate":
			return e.Translate(n, v, space)
		case "scale":
			return e.Scale(n, v, space)
		case "setscale":
			return e.SetScale(n, v, space)
		case "euler":
			return e.SetRotation(n, utils.EulerToQuat(utils.DegreeToRadiansV3(v)), space)
		}
	case "rotate":
		n, err := a.node()
		if err != nil {
			return err
		}
		axis, err := a.vec3()
		if err != nil {
			return err
		}
		deg, err := a.float()
		if err != nil {
			return err
		}
		space, err := a.space()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		return e.RotateOnAxis(n, axis.Normalize(), mgl32.DegToRad(deg), space)
	case "set":
		n, err := a.node()
		if err != nil {
			return err
		}
		name, err := a.str("property")
		if err != nil {
			return err
		}
		value, err := a.value()
		if err != nil {
			return err
		}
		return e.SetProperty(n, name, value)
	case "group":
		nodes, err := a.nodes()
		if err != nil {
			return err
		}
		labels, err := a.bindings()
		if err != nil {
			return err
		}
		if err := a.done(); err != nil {
			return err
		}
		group, err := e.GroupMultiple(nodes)
		if err != nil {
			return err
		}
		return in.bind(labels, []scene.Node{group})
	case "undo", "redo":
		if err := a.done(); err != nil {
			return err
		}
		var err error
		if st.Op == "undo" {
			_, err = e.Undo()
		} else {
			_, err = e.Redo()
		}
		return err
	default:
		return errors.Errorf("Unknown op %q", st.Op)
	}
	return nil
}
