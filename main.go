package main

import "github.com/mediashelf/media-tidy/internal/cmd"

func main() {
	cmd.Execute()
}
