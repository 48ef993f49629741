package golden

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Ravenslofty/gpawoo2/flo"
)

type yamlSuite struct {
	Name     string     `yaml:"name"`
	Overflow string     `yaml:"overflow,omitempty"`
	Cases    []yamlCase `yaml:"cases"`
}

type yamlCase struct {
	Name string `yaml:"name,omitempty"`
	A    bits   `yaml:"a"`
	B    bits   `yaml:"b"`
	C    bits   `yaml:"c"`
	Want bits   `yaml:"want"`
}

// bits is a uint32 that is written to YAML as a hex string, and can be read
// from anything strconv.ParseUint understands.
type bits struct {
	x    uint32
	line int
}

func (b *bits) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: want a number, got %v", n.Line, n.Tag)
	}
	x, err := parseBits(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	b.x, b.line = x, n.Line
	return nil
}

func (b bits) MarshalYAML() (any, error) {
	return formatBits(b.x, true), nil
}

// ReadSuite reads a YAML suite from r. name is used for Case.Pos and error
// messages.
func ReadSuite(r io.Reader, name string) (Suite, error) {
	var ys yamlSuite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ys); err != nil {
		return Suite{}, fmt.Errorf("%s: %w", name, err)
	}
	o, err := flo.ParseOverflow(ys.Overflow)
	if err != nil {
		return Suite{}, fmt.Errorf("%s: %w", name, err)
	}
	s := Suite{
		Name:     ys.Name,
		Overflow: o,
		Cases:    make([]Case, len(ys.Cases)),
	}
	for i, c := range ys.Cases {
		s.Cases[i] = Case{
			Name: c.Name,
			A:    c.A.x,
			B:    c.B.x,
			C:    c.C.x,
			Want: c.Want.x,
			Pos:  fmt.Sprintf("%s:%d", name, c.A.line),
		}
	}
	return s, nil
}

// WriteSuite writes s to w as YAML.
func WriteSuite(w io.Writer, s Suite) error {
	ys := yamlSuite{
		Name:  s.Name,
		Cases: make([]yamlCase, len(s.Cases)),
	}
	if s.Overflow != flo.Saturate {
		ys.Overflow = s.Overflow.String()
	}
	for i, c := range s.Cases {
		ys.Cases[i] = yamlCase{
			Name: c.Name,
			A:    bits{x: c.A},
			B:    bits{x: c.B},
			C:    bits{x: c.C},
			Want: bits{x: c.Want},
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ys); err != nil {
		return err
	}
	return enc.Close()
}
