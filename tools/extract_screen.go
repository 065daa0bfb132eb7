package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"pitchlab/pkg/extract"
	"pitchlab/pkg/recognize"
)

func main() {
	img := flag.String("img", "tmp/test.png", "readout screen image to extract")
	showFragments := flag.Bool("fragments", false, "print raw recognized fragments")
	flag.Parse()
	p, _ := filepath.Abs(*img)
	fmt.Printf("Extracting readings from %s\n", p)

	rec := recognize.NewTesseract()
	fragments, err := rec.Fragments(p)
	if err != nil {
		log.Fatalf("recognition error: %v", err)
	}
	if *showFragments {
		for _, f := range fragments {
			fmt.Printf("frag conf=%.2f box=(%.2f,%.2f)-(%.2f,%.2f) %q\n",
				f.Confidence, f.Box.MinX, f.Box.MinY, f.Box.MaxX, f.Box.MaxY, f.Text)
		}
	}

	record := extract.ExtractRecord(extract.NewCorpus(fragments))
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Fatalf("marshal record: %v", err)
	}
	fmt.Println(string(out))
	fmt.Printf("confidence=%s missing=%v\n", record.Confidence(), record.MissingFields())
}
