// Package template - Chat-Templates fuer smolchat
// Modul nodes: Feldnamen im Parse-Tree sammeln
package template

import (
	"strings"
	"text/template/parse"
)

// fieldSet sammelt die kleingeschriebenen Feldnamen eines Templates
type fieldSet map[string]struct{}

func (s fieldSet) add(idents ...string) {
	for _, ident := range idents {
		s[strings.ToLower(ident)] = struct{}{}
	}
}

// walk besucht alle Knoten unterhalb von root ohne Rekursion.
// Variablen wie $m.Content tragen nur ihre Feldnamen bei, nicht $m selbst.
func (s fieldSet) walk(root parse.Node) {
	stack := []parse.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := n.(type) {
		case *parse.ListNode:
			if n != nil {
				stack = append(stack, n.Nodes...)
			}
		case *parse.ActionNode:
			stack = append(stack, n.Pipe)
		case *parse.TemplateNode:
			if n.Pipe != nil {
				stack = append(stack, n.Pipe)
			}
		case *parse.IfNode:
			stack = append(stack, n.Pipe, n.List, n.ElseList)
		case *parse.RangeNode:
			stack = append(stack, n.Pipe, n.List, n.ElseList)
		case *parse.WithNode:
			stack = append(stack, n.Pipe, n.List, n.ElseList)
		case *parse.PipeNode:
			if n == nil {
				continue
			}
			for _, c := range n.Cmds {
				stack = append(stack, c)
			}
		case *parse.CommandNode:
			stack = append(stack, n.Args...)
		case *parse.ChainNode:
			stack = append(stack, n.Node)
			s.add(n.Field...)
		case *parse.FieldNode:
			s.add(n.Ident...)
		case *parse.VariableNode:
			if len(n.Ident) > 1 {
				s.add(n.Ident[1:]...)
			}
		}
	}
}
