package main

import cmd "github.com/rohmanhakim/docuprism/internal/cli"

func main() {
	cmd.Execute()
}
