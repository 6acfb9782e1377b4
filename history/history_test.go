package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addCommand adds delta to a shared counter and merges with other adds to
// the same counter.
type addCommand struct {
	target *int
	delta  int
	fail   bool
}

func (c *addCommand) Execute() error {
	if c.fail {
		return errors.New("boom")
	}
	*c.target += c.delta
	return nil
}

func (c *addCommand) Undo() error {
	*c.target -= c.delta
	return nil
}

func (c *addCommand) ShouldUpdate(next Command) bool {
	n, ok := next.(*addCommand)
	return ok && n.target == c.target
}

func (c *addCommand) Update(next Command) error {
	n := next.(*addCommand)
	*c.target += n.delta
	c.delta += n.delta
	return nil
}

func (c *addCommand) String() string { return fmt.Sprintf("add %d", c.delta) }

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newHistory(opts ...Option) (*History, *clock) {
	c := &clock{now: time.Unix(1000, 0)}
	return New(append([]Option{WithClock(c.Now)}, opts...)...), c
}

func TestExecuteUndoRedo(t *testing.T) {
	h, c := newHistory()
	var value int

	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	c.now = c.now.Add(2 * time.Second)
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 10}))
	assert.Equal(t, 11, value)
	assert.Equal(t, []int{1, 2}, ids(h.Undos()))

	cmd, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, "add 10", cmd.String())
	assert.Equal(t, 1, value)
	assert.True(t, h.CanRedo())

	_, err = h.Redo()
	require.NoError(t, err)
	assert.Equal(t, 11, value)
	assert.False(t, h.CanRedo())
}

func ids(records []Record) []int {
	result := make([]int, len(records))
	for i, r := range records {
		result[i] = r.ID
	}
	return result
}

func TestFreshExecuteClearsRedo(t *testing.T) {
	h, c := newHistory()
	var a, b int
	require.NoError(t, h.Execute(&addCommand{target: &a, delta: 1}))
	_, err := h.Undo()
	require.NoError(t, err)
	require.Len(t, h.Redos(), 1)

	c.now = c.now.Add(time.Hour)
	require.NoError(t, h.Execute(&addCommand{target: &b, delta: 1}))
	assert.Empty(t, h.Redos())
	assert.Equal(t, []int{2}, ids(h.Undos()))
}

func TestCoalescingWindow(t *testing.T) {
	h, c := newHistory()
	var value int

	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	c.now = c.now.Add(999 * time.Millisecond)
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 2}))
	assert.Len(t, h.Undos(), 1)
	assert.Equal(t, 3, value)

	c.now = c.now.Add(DefaultWindow)
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 4}))
	assert.Len(t, h.Undos(), 2)

	_, err := h.Undo()
	require.NoError(t, err)
	_, err = h.Undo()
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestCoalescingWindowOption(t *testing.T) {
	h, c := newHistory(WithWindow(100 * time.Millisecond))
	var value int
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	c.now = c.now.Add(150 * time.Millisecond)
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	assert.Len(t, h.Undos(), 2)
}

func TestIncompatibleCommandsDoNotMerge(t *testing.T) {
	h, _ := newHistory()
	var a, b int
	require.NoError(t, h.Execute(&addCommand{target: &a, delta: 1}))
	require.NoError(t, h.Execute(&addCommand{target: &b, delta: 1}))
	assert.Len(t, h.Undos(), 2)
}

func TestFailedExecuteIsNotRecorded(t *testing.T) {
	h, _ := newHistory()
	var value int
	changed := 0
	h.Changed.Connect(func(Command) { changed++ })

	err := h.Execute(&addCommand{target: &value, delta: 1, fail: true})
	assert.Error(t, err)
	assert.Empty(t, h.Undos())
	assert.Equal(t, 0, changed)
}

func TestEmptyStacksAreSilent(t *testing.T) {
	h, _ := newHistory()
	cmd, err := h.Undo()
	assert.Nil(t, cmd)
	assert.NoError(t, err)
	cmd, err = h.Redo()
	assert.Nil(t, cmd)
	assert.NoError(t, err)
}

func TestDisabledRefusesUndoRedo(t *testing.T) {
	h, _ := newHistory()
	var value int
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))

	h.Disable()
	assert.False(t, h.Enabled())
	assert.False(t, h.CanUndo())
	_, err := h.Undo()
	assert.True(t, errors.Is(err, ErrDisabled))
	_, err = h.Redo()
	assert.True(t, errors.Is(err, ErrDisabled))
	assert.Equal(t, 1, value)
	assert.Len(t, h.Undos(), 1)

	h.Enable()
	_, err = h.Undo()
	require.NoError(t, err)
	assert.Equal(t, 0, value)
}

func TestClear(t *testing.T) {
	h, c := newHistory()
	var value int
	var last []Command
	h.Changed.Connect(func(cmd Command) { last = append(last, cmd) })

	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	h.Clear()
	assert.Empty(t, h.Undos())
	assert.Nil(t, last[len(last)-1])

	c.now = c.now.Add(time.Millisecond)
	require.NoError(t, h.Execute(&addCommand{target: &value, delta: 1}))
	assert.Equal(t, []int{1}, ids(h.Undos()))
}

func TestLimitDropsOldest(t *testing.T) {
	h, c := newHistory(WithLimit(2))
	var a, b, d int
	for _, target := range []*int{&a, &b, &d} {
		require.NoError(t, h.Execute(&addCommand{target: target, delta: 1}))
		c.now = c.now.Add(time.Hour)
	}
	assert.Equal(t, []int{2, 3}, ids(h.Undos()))
}

func TestMultiUndoesInReverse(t *testing.T) {
	var order []string
	step := func(name string) Command {
		return &recordingCommand{name: name, order: &order}
	}
	m := NewMulti("batch", step("a"), step("b"), step("c"))

	require.NoError(t, m.Execute())
	require.NoError(t, m.Undo())
	assert.Equal(t, []string{"do a", "do b", "do c", "undo c", "undo b", "undo a"}, order)
	assert.Equal(t, "batch", m.String())
	assert.False(t, m.ShouldUpdate(m))
}

func TestMultiRollsBack(t *testing.T) {
	var order []string
	m := NewMulti("",
		&recordingCommand{name: "a", order: &order},
		&recordingCommand{name: "b", order: &order},
		&recordingCommand{name: "c", order: &order, fail: true},
	)
	err := m.Execute()
	assert.Error(t, err)
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, order)
	assert.Equal(t, "Multi(a, b, c)", m.String())
}

type recordingCommand struct {
	NotUpdatable
	name  string
	order *[]string
	fail  bool
}

func (c *recordingCommand) Execute() error {
	if c.fail {
		return errors.New("refused")
	}
	*c.order = append(*c.order, "do "+c.name)
	return nil
}

func (c *recordingCommand) Undo() error {
	*c.order = append(*c.order, "undo "+c.name)
	return nil
}

func (c *recordingCommand) String() string { return c.name }
