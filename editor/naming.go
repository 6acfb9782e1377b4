package editor

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var numberedName = regexp.MustCompile(`^(.*\S) (\d+)$`)

func normalizeName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

// baseName strips a trailing " N" counter.
func baseName(name string) string {
	name = normalizeName(name)
	if m := numberedName.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// UniqueName returns name unchanged unless another node of the scene (or one
// of reserved) shares its base name. In that case it returns "base N" with
// the smallest N >= 1 that nothing uses yet.
func (e *Editor) UniqueName(name string, reserved []string) string {
	base := baseName(name)
	used := make(map[string]struct{}, len(e.nodes)+len(reserved))
	collides := false
	add := func(n string) {
		n = normalizeName(n)
		used[n] = struct{}{}
		if baseName(n) == base {
			collides = true
		}
	}
	for _, n := range e.nodes {
		add(n.AsObject().Name)
	}
	for _, n := range reserved {
		add(n)
	}
	if !collides {
		return name
	}
	for i := 1; ; i++ {
		candidate := base + " " + strconv.Itoa(i)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
