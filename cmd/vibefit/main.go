package main

import "github.com/2beens/vibefit/internal/cli"

func main() {
	cli.Execute()
}
