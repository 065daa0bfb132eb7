package main

import "pitchlab/process/sanitize"

func main() {
	sanitize.Run()
}
