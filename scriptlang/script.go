// Package scriptlang parses and runs line oriented editor scripts:
//
//	add $box group "Box"        // create a node labelled $box
//	position $box 0 1 0 world
//	undo
package scriptlang

import (
	"fmt"
	"strings"
)

// Label references a node created or bound earlier in the script.
type Label struct {
	Name string
}

func (l *Label) String() string { return "$" + l.Name }

func (l *Label) GoString() string {
	return fmt.Sprintf("label %q", l.String())
}

// Word is a bare identifier argument, like a node kind or a space name.
type Word string

// Statement is one script line.
type Statement struct {
	Op        string
	Arguments []interface{}
	Comment   string
	Line      int
}

func (st *Statement) String() string {
	s := st.Op
	for _, p := range st.Arguments {
		switch p.(type) {
		case string:
			s += fmt.Sprintf(" %q", p)
		default:
			s += fmt.Sprint(" ", p)
		}
	}
	return s
}

func (st *Statement) AddArguments(args ...interface{}) {
	st.Arguments = append(st.Arguments, args...)
}

func RenderScriptLines(statements []*Statement) []string {
	result := make([]string, 0, len(statements))
	for _, st := range statements {
		if st.Comment == "" {
			result = append(result, st.String())
		} else {
			result = append(result, fmt.Sprintf("%-20s // %s", st.String(), st.Comment))
		}
	}
	return result
}

func RenderScript(statements []*Statement) string {
	return strings.Join(RenderScriptLines(statements), "\n")
}
