// package golden reads, writes, generates and checks golden test vectors for
// an FMA unit.
//
// Vectors come in two formats. CSV files have one case per line with four
// fields a,b,c,want, each an integer in Go syntax (so decimal, as the RTL
// test bench's test_cases.txt is, or 0x-prefixed hex). YAML suites have
// a name, an optional overflow mode and a list of named cases.
package golden

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/fma"
)

// Case is a single test vector: Want should be a*b+c.
type Case struct {
	Name    string
	A, B, C uint32
	Want    uint32
	// Pos is where the case was read from, if anywhere.
	Pos string
}

func (c Case) String() string {
	var s strings.Builder
	if c.Pos != "" {
		s.WriteString(c.Pos)
		s.WriteString(": ")
	}
	if c.Name != "" {
		fmt.Fprintf(&s, "%s: ", c.Name)
	}
	fmt.Fprintf(&s, "%08x*%08x+%08x=%08x", c.A, c.B, c.C, c.Want)
	return s.String()
}

// Suite is a group of cases that run on the same unit.
type Suite struct {
	Name     string
	Overflow flo.Overflow
	Cases    []Case
}

// Unit returns the FMA unit the suite's cases expect.
func (s Suite) Unit() fma.Unit {
	return fma.Unit{Overflow: s.Overflow}
}

// ReadFile reads a suite from a .csv, .yaml or .yml file. CSV suites are
// named after the file and always use the default overflow mode.
func ReadFile(path string) (Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Suite{}, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		cases, err := ReadCSV(f, path)
		if err != nil {
			return Suite{}, err
		}
		return Suite{
			Name:  strings.TrimSuffix(filepath.Base(path), ext),
			Cases: cases,
		}, nil
	case ".yaml", ".yml":
		return ReadSuite(f, path)
	default:
		return Suite{}, fmt.Errorf("%s: unknown vector file type %q", path, ext)
	}
}

// parseBits parses a 32 bit pattern written as a Go integer literal.
func parseBits(s string) (uint32, error) {
	x, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(x), nil
}

func formatBits(x uint32, hex bool) string {
	if hex {
		return fmt.Sprintf("0x%08x", x)
	}
	return strconv.FormatUint(uint64(x), 10)
}
