package editor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mogaika/sceneditor/history"
	"github.com/mogaika/sceneditor/scene"
)

// hookLog collects lifecycle hook calls of probe nodes.
type hookLog struct {
	calls []string
}

func (l *hookLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *hookLog) take() []string {
	calls := l.calls
	l.calls = nil
	return calls
}

func (l *hookLog) count(call string) int {
	n := 0
	for _, c := range l.calls {
		if c == call {
			n++
		}
	}
	return n
}

var kindProbe = scene.RegisterKind(&scene.Kind{Name: "test.probe"})

type probe struct {
	scene.Object
	log *hookLog
}

func newProbe(log *hookLog, name string) *probe {
	p := &probe{log: log}
	p.Init(p, name)
	return p
}

func (p *probe) Kind() *scene.Kind { return kindProbe }

func (p *probe) Clone() scene.Node {
	c := *p
	c.CloneFrom(&p.Object, &c)
	return &c
}

func (p *probe) OnAdd()      { p.log.add("add %s", p.Name) }
func (p *probe) OnRemove()   { p.log.add("remove %s", p.Name) }
func (p *probe) OnSelect()   { p.log.add("select %s", p.Name) }
func (p *probe) OnDeselect() { p.log.add("deselect %s", p.Name) }

func (p *probe) OnChange(property string) { p.log.add("change %s %s", p.Name, property) }

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fixture is an editor with a fake clock and signal counters.
type fixture struct {
	*Editor
	log   *hookLog
	clock *fakeClock

	selectionEvents int
	graphEvents     int
	objectEvents    []ObjectsChange
}

func newFixture() *fixture {
	f := &fixture{log: &hookLog{}, clock: newFakeClock()}
	f.Editor = New(WithHistoryOptions(history.WithClock(f.clock.Now)))
	f.SelectionChanged.Connect(func([]scene.Node) { f.selectionEvents++ })
	f.SceneGraphChanged.Connect(func(*scene.Scene) { f.graphEvents++ })
	f.ObjectsChanged.Connect(func(c ObjectsChange) { f.objectEvents = append(f.objectEvents, c) })
	return f
}

func (f *fixture) probe(name string) *probe { return newProbe(f.log, name) }

// attached adds a probe without recording history or selecting it.
func (f *fixture) attached(name string, parent scene.Node) *probe {
	p := f.probe(name)
	if err := f.AddObject(p, parent, nil, NoHistory, NoSelect, NoEvent); err != nil {
		panic(err)
	}
	return p
}

func (f *fixture) resetCounters() {
	f.selectionEvents = 0
	f.graphEvents = 0
	f.objectEvents = nil
	f.log.take()
}

func names(nodes []scene.Node) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.AsObject().Name
	}
	return result
}

// state renders everything undo has to restore.
func state(e *Editor) string {
	var b strings.Builder
	scene.Traverse(e.Scene(), func(n scene.Node) bool {
		o := n.AsObject()
		parent := "-"
		if p := o.Parent(); p != nil {
			parent = p.AsObject().Name
		}
		fmt.Fprintf(&b, "%s<%s> parent=%s children=%v p=%v r=%v s=%v visible=%v fixed=%v\n",
			o.Name, n.Kind().Name, parent, names(o.Children()), o.Position, o.Rotation, o.Scale,
			o.Visible, o.DisableTransform)
		return true
	})
	fmt.Fprintf(&b, "selected=%v\n", names(e.Selected()))
	fmt.Fprintf(&b, "roots=%v\n", names(e.SelectedTransformRoots()))
	// Undo appends re-added nodes, so only membership is compared.
	index := names(e.Nodes())
	sort.Strings(index)
	fmt.Fprintf(&b, "index=%v\n", index)
	return b.String()
}
