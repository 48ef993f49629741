// gen-vectors writes golden vector files for the FMA unit: a CSV of random
// cases and, optionally, a YAML suite of hand-checkable ones.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/Ravenslofty/gpawoo2/flo"
	"github.com/Ravenslofty/gpawoo2/golden"
)

var (
	dirFlag = flag.String("dir", "", "directory in which to write output")

	nFlag        = flag.Int("n", 1000, "number of random cases to generate")
	seedFlag     = flag.Uint("seed", 1, "seed for the random operands")
	hexFlag      = flag.Bool("hex", false, "write hex rather than decimal fields in the CSV")
	overflowFlag = flag.String("overflow", "saturate", "overflow `mode` the expected results use: saturate or infinity")
	basicsFlag   = flag.Bool("basics", true, "whether or not to also write basics.yaml")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("gen-vectors: ")

	o, err := flo.ParseOverflow(*overflowFlag)
	if err != nil {
		log.Fatal(err)
	}
	s := golden.Suite{Name: "random", Overflow: o}

	if err := genRandom(*dirFlag, s); err != nil {
		log.Fatal(err)
	}
	if *basicsFlag {
		if err := genBasics(*dirFlag); err != nil {
			log.Fatal(err)
		}
	}
	log.Println("All done")
}

func genRandom(dir string, s golden.Suite) error {
	log.Printf("Generating %d cases with seed %d", *nFlag, *seedFlag)

	name := "random.csv"
	if s.Overflow != flo.Saturate {
		// CSV files can't say which mode they want, so at least say so
		// in the name.
		name = "random-" + s.Overflow.String() + ".csv"
	}
	path := filepath.Join(dir, name)
	s.Cases = golden.Generate(s.Unit(), uint32(*seedFlag), *nFlag)

	var b bytes.Buffer
	b.WriteString("# a,b,c,want\n")
	if err := golden.WriteCSV(&b, s.Cases, *hexFlag); err != nil {
		return err
	}
	if err := os.WriteFile(path, b.Bytes(), 0666); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}

func genBasics(dir string) error {
	path := filepath.Join(dir, "basics.yaml")
	var b bytes.Buffer
	if err := golden.WriteSuite(&b, golden.Suite{
		Name:  "basics",
		Cases: golden.Basics(),
	}); err != nil {
		return err
	}
	if err := os.WriteFile(path, b.Bytes(), 0666); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}
