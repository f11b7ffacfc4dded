package main

import "github.com/mahimpat/creatorcrafter/internal/cli"

func main() {
	cli.Execute()
}
