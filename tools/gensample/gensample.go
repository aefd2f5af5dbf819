package main

import (
	"flag"
	"log"
	"os"

	"github.com/Pallinder/go-randomdata"
	"github.com/qmuntal/gltf"
)

// Writes a .glb with named materials for poking at the upload ui by
// hand.
func main() {
	var out string
	var count int
	var unnamed bool
	flag.StringVar(&out, "o", "sample.glb", "Output file name")
	flag.IntVar(&count, "materials", 4, "Count of materials to generate")
	flag.BoolVar(&unnamed, "unnamed", false, "Leave every second material without a name")
	flag.Parse()

	doc := gltf.NewDocument()
	for i := 0; i < count; i++ {
		m := &gltf.Material{}
		if !unnamed || i%2 == 0 {
			m.Name = randomdata.SillyName()
		}
		doc.Materials = append(doc.Materials, m)
	}

	f, err := os.Create(out)
	if err != nil {
		log.Fatalf("Failed to create %q: %v", out, err)
	}
	defer f.Close()

	encoder := gltf.NewEncoder(f)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		log.Fatalf("Failed to encode %q: %v", out, err)
	}

	log.Printf("[gensample] Wrote %v with %v materials", out, count)
}
