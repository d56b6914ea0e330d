package main

import "github.com/s2t-dev/s2t-mcp/cmd/s2t-mcp/cmd"

func main() {
	cmd.Execute()
}
