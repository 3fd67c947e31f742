package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/engine"
)

// Script is a recorded pointer session in device coordinates.
//
//	viewport: [300, 200]
//	steps:
//	  - tool: brush
//	  - color: "#3B82F6"
//	  - down: [50, 50]
//	  - move: [100, 50]
//	  - up: true
//	  - color: Red
//	    region: 2
type Script struct {
	Viewport []float64 `yaml:"viewport"`
	Steps    []Step    `yaml:"steps"`
}

// Step is one script action. A step may set several fields; they run in
// field order.
type Step struct {
	Tool   string    `yaml:"tool"`
	Color  string    `yaml:"color"`
	Size   int       `yaml:"size"`
	Clear  bool      `yaml:"clear"`
	Region *int      `yaml:"region"` // template region index to fill
	Down   []float64 `yaml:"down"`
	Move   []float64 `yaml:"move"`
	Up     bool      `yaml:"up"`
	Leave  bool      `yaml:"leave"`
}

func readScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("script: %w", err)
	}
	if s.Viewport != nil && len(s.Viewport) != 2 {
		return nil, fmt.Errorf("script: viewport needs 2 numbers, got %d", len(s.Viewport))
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("script: step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	if st.Tool != "" {
		if _, ok := colorbook.ParseTool(st.Tool); !ok {
			return fmt.Errorf("unknown tool %q", st.Tool)
		}
	}
	for _, p := range [][]float64{st.Down, st.Move} {
		if p != nil && len(p) != 2 {
			return fmt.Errorf("point needs 2 numbers, got %d", len(p))
		}
	}
	return nil
}

// Play applies the script to e.
func (s *Script) Play(e *engine.Engine) {
	if len(s.Viewport) == 2 {
		e.SetViewport(engine.Viewport{Width: s.Viewport[0], Height: s.Viewport[1]})
	}
	for _, st := range s.Steps {
		if t, ok := colorbook.ParseTool(st.Tool); ok {
			e.SetTool(t)
		}
		if st.Color != "" {
			if c, ok := colorbook.LookupColor(st.Color); ok {
				e.SetColor(c.Value)
			} else {
				e.SetColorHex(st.Color)
			}
		}
		if st.Size != 0 {
			e.SetBrushSize(st.Size)
		}
		if st.Clear {
			e.Clear()
		}
		if st.Region != nil && !e.FillRegion(*st.Region) {
			colorbook.Logger().Warn("script: no such region", "region", *st.Region)
		}
		if len(st.Down) == 2 {
			e.PointerDown(st.Down[0], st.Down[1])
		}
		if len(st.Move) == 2 {
			e.PointerMove(st.Move[0], st.Move[1])
		}
		if st.Up {
			e.PointerUp()
		}
		if st.Leave {
			e.PointerLeave()
		}
	}
}
