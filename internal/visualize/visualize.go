// Package visualize renders handler tables as Graphviz DOT, JSON or YAML.
// Tables declare no transitions, so edges come from state changes observed
// in a trace.
package visualize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tinyfsm"
)

// Visualizer renders tables. Names maps states to display names; states it
// does not cover use their numeric form.
type Visualizer struct {
	Names func(tinyfsm.StateID) string
}

// Edge is an observed state change.
type Edge struct {
	From  tinyfsm.StateID
	To    tinyfsm.StateID
	Count int
}

// Dump is the serialisable form of a table.
type Dump struct {
	Current *StateRef   `json:"current,omitempty" yaml:"current,omitempty"`
	States  []StateDump `json:"states" yaml:"states"`
}

// StateRef names a state.
type StateRef struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// StateDump lists the handlers of one state.
type StateDump struct {
	StateRef `yaml:",inline"`
	Entry    *HandlerDump  `json:"entry,omitempty" yaml:"entry,omitempty"`
	Exit     *HandlerDump  `json:"exit,omitempty" yaml:"exit,omitempty"`
	Events   []HandlerDump `json:"events,omitempty" yaml:"events,omitempty"`
}

// HandlerDump describes one handler.
type HandlerDump struct {
	Name  string `json:"name" yaml:"name"`
	Shape string `json:"shape" yaml:"shape"`
	Tag   string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

func (v *Visualizer) name(id tinyfsm.StateID) string {
	if v.Names != nil {
		if n := v.Names(id); n != "" {
			return n
		}
	}
	return id.String()
}

// Edges collects the state changes in events, in order of first occurrence.
func Edges(events []tinyfsm.TraceEvent) []Edge {
	var edges []Edge
	index := make(map[[2]tinyfsm.StateID]int)
	for _, ev := range events {
		if ev.Phase != tinyfsm.PhaseStateChanged {
			continue
		}
		k := [2]tinyfsm.StateID{ev.State, ev.Target}
		if i, ok := index[k]; ok {
			edges[i].Count++
			continue
		}
		index[k] = len(edges)
		edges = append(edges, Edge{From: ev.State, To: ev.Target, Count: 1})
	}
	return edges
}

// ExportDOT generates Graphviz DOT source for table. The current state is
// highlighted; wildcard handlers are drawn in their own cluster.
func (v *Visualizer) ExportDOT(table *tinyfsm.Table, current tinyfsm.StateID, edges []Edge) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph FSM {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	byState := group(table)
	seen := make(map[tinyfsm.StateID]bool)
	for _, id := range table.States() {
		seen[id] = true
		if id == tinyfsm.AnyState {
			buf.WriteString("  subgraph cluster_any {\n")
			buf.WriteString(`    label="any state" style=dashed;` + "\n")
			v.renderState(&buf, "    ", id, byState[id], false)
			buf.WriteString("  }\n")
			continue
		}
		v.renderState(&buf, "  ", id, byState[id], id == current)
	}
	if !seen[current] {
		v.renderState(&buf, "  ", current, nil, true)
		seen[current] = true
	}
	for _, e := range edges {
		for _, id := range []tinyfsm.StateID{e.From, e.To} {
			if !seen[id] {
				v.renderState(&buf, "  ", id, nil, false)
				seen[id] = true
			}
		}
	}

	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", v.name(e.From), v.name(e.To), e.Count)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (v *Visualizer) renderState(buf *bytes.Buffer, indent string, id tinyfsm.StateID, entries []tinyfsm.Entry, active bool) {
	lines := []string{v.name(id)}
	for _, e := range entries {
		line := e.Key.Kind.String()
		if e.Key.Kind == tinyfsm.OnEvent {
			line += "(" + e.Key.Tag.String() + ")"
		}
		lines = append(lines, line)
	}
	style := ""
	if active {
		style = ` style="rounded,filled" fillcolor=lightgreen`
	}
	label := strings.ReplaceAll(strings.Join(lines, `\n`), `"`, `\"`)
	fmt.Fprintf(buf, "%s%q [label=\"%s\"%s];\n", indent, v.name(id), label, style)
}

func group(table *tinyfsm.Table) map[tinyfsm.StateID][]tinyfsm.Entry {
	out := make(map[tinyfsm.StateID][]tinyfsm.Entry)
	for _, e := range table.Entries() {
		out[e.Key.State] = append(out[e.Key.State], e)
	}
	return out
}

// Dump builds the serialisable form of table. current is included when
// non-nil.
func (v *Visualizer) Dump(table *tinyfsm.Table, current *tinyfsm.StateID) Dump {
	var d Dump
	if current != nil {
		d.Current = &StateRef{ID: int(*current), Name: v.name(*current)}
	}
	byState := group(table)
	for _, id := range table.States() {
		sd := StateDump{StateRef: StateRef{ID: int(id), Name: v.name(id)}}
		for _, e := range byState[id] {
			h := HandlerDump{Name: e.Name, Shape: e.Shape.String()}
			switch e.Key.Kind {
			case tinyfsm.OnEntry:
				sd.Entry = &h
			case tinyfsm.OnExit:
				sd.Exit = &h
			case tinyfsm.OnEvent:
				h.Tag = e.Key.Tag.String()
				sd.Events = append(sd.Events, h)
			}
		}
		d.States = append(d.States, sd)
	}
	return d
}

// ExportJSON serialises the table dump to indented JSON.
func (v *Visualizer) ExportJSON(table *tinyfsm.Table, current *tinyfsm.StateID) ([]byte, error) {
	return json.MarshalIndent(v.Dump(table, current), "", "  ")
}

// ExportYAML serialises the table dump to YAML.
func (v *Visualizer) ExportYAML(table *tinyfsm.Table, current *tinyfsm.StateID) ([]byte, error) {
	return yaml.Marshal(v.Dump(table, current))
}
