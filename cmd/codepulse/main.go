package main

import "github.com/emiliopalmerini/codepulse/internal/cli"

func main() {
	cli.Execute()
}
