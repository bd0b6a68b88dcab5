// Package script loads scenario scripts (YAML or JSON) and replays them
// against an engine: fire events, request transitions and check the
// resulting state.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/tinyfsm"
)

var (
	ErrUnknownState    = errors.New("unknown state")
	ErrUnknownPayload  = errors.New("unknown payload type")
	ErrInvalidStep     = errors.New("step must have exactly one of fire, transition or expect")
	ErrUnexpectedState = errors.New("unexpected state")
)

// Format is the encoding of a script file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Script is a named sequence of steps.
type Script struct {
	Name    string `json:"name" yaml:"name"`
	Initial string `json:"initial,omitempty" yaml:"initial,omitempty"`
	Steps   []Step `json:"steps" yaml:"steps"`
}

// Step does one thing: fire an event, request a transition, or check the
// current state.
type Step struct {
	Fire       *Payload `json:"fire,omitempty" yaml:"fire,omitempty"`
	Transition string   `json:"transition,omitempty" yaml:"transition,omitempty"`
	Expect     string   `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Payload describes an event value. Type is string, int, float, bool or
// command; a command payload is routed by its name.
type Payload struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Command is the payload produced for type "command".
type Command struct {
	Name string
}

func (c Command) EventTag() tinyfsm.TypeTag { return tinyfsm.NamedTag(c.Name) }

func (c Command) String() string { return "command:" + c.Name }

// Decode returns the Go value the payload stands for.
func (p Payload) Decode() (any, error) {
	switch strings.ToLower(p.Type) {
	case "string":
		return fmt.Sprint(p.Value), nil
	case "int":
		switch v := p.Value.(type) {
		case int:
			return v, nil
		case float64:
			if v != float64(int(v)) {
				return nil, fmt.Errorf("int payload %v has a fraction", v)
			}
			return int(v), nil
		}
		return nil, fmt.Errorf("int payload has type %T", p.Value)
	case "float":
		switch v := p.Value.(type) {
		case int:
			return float64(v), nil
		case float64:
			return v, nil
		}
		return nil, fmt.Errorf("float payload has type %T", p.Value)
	case "bool":
		if v, ok := p.Value.(bool); ok {
			return v, nil
		}
		return nil, fmt.Errorf("bool payload has type %T", p.Value)
	case "command":
		name, ok := p.Value.(string)
		if !ok || name == "" {
			return nil, errors.New("command payload needs a name")
		}
		return Command{Name: name}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPayload, p.Type)
}

// Load reads a script file; the format follows the file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	return Parse(data, format)
}

// Parse decodes and validates a script.
func Parse(data []byte, format Format) (*Script, error) {
	var s Script
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown script format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the script.
func (s *Script) Marshal(format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(s, "", "  ")
	}
	return yaml.Marshal(s)
}

// Validate checks that every step does exactly one thing and that fire
// payloads decode.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		n := 0
		if step.Fire != nil {
			n++
			if _, err := step.Fire.Decode(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		if step.Transition != "" {
			n++
		}
		if step.Expect != "" {
			n++
		}
		if n != 1 {
			return fmt.Errorf("step %d: %w", i, ErrInvalidStep)
		}
	}
	return nil
}

// Driver is the part of an engine a script needs.
type Driver interface {
	Fire(payload any) error
	TransitionTo(state tinyfsm.StateID) error
	CurrentState() tinyfsm.StateID
}

// States maps state names used in scripts to identifiers.
type States map[string]tinyfsm.StateID

// Resolve returns the identifier for name.
func (st States) Resolve(name string) (tinyfsm.StateID, error) {
	id, ok := st[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownState, name)
	}
	return id, nil
}

// Run replays the steps against d. It stops at the first failing step.
func (s *Script) Run(d Driver, states States) error {
	for i, step := range s.Steps {
		if err := runStep(d, states, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func runStep(d Driver, states States, step Step) error {
	switch {
	case step.Fire != nil:
		v, err := step.Fire.Decode()
		if err != nil {
			return err
		}
		return d.Fire(v)
	case step.Transition != "":
		id, err := states.Resolve(step.Transition)
		if err != nil {
			return err
		}
		return d.TransitionTo(id)
	case step.Expect != "":
		id, err := states.Resolve(step.Expect)
		if err != nil {
			return err
		}
		if cur := d.CurrentState(); cur != id {
			return fmt.Errorf("%w: want %s, have %s", ErrUnexpectedState, step.Expect, cur)
		}
		return nil
	}
	return ErrInvalidStep
}
