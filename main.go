package main

import (
	"log"

	"github.com/sjzar/forge/cmd/forge"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	forge.Execute()
}
