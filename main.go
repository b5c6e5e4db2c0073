package main

import "github.com/KaramelBytes/refgraph-cli/cmd"

func main() {
	cmd.Execute()
}
