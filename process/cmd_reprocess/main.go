package main

import (
	"flag"
	"fmt"
	"os"

	"pitchlab/process/reprocess"
)

func main() {
	baseDir := flag.String("base-dir", ".", "base directory store paths are relative to")
	dry := flag.Bool("dry-run", true, "dry-run: don't write to DB")
	unlinked := flag.Bool("include-unlinked", false, "also retry uploads that never got a pitch link")
	flag.Parse()

	if os.Getenv("DB_DSN") == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export and retry")
		os.Exit(2)
	}

	if err := reprocess.Run(*baseDir, *dry, *unlinked); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}
