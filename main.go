package main

import (
	cmd "github.com/blart-ai/blart-server/cmd/blart"
)

func main() {
	cmd.Execute()
}
