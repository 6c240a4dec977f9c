package main

import cmd "github.com/rohmanhakim/newsguard/internal/cli"

func main() {
	cmd.Execute()
}
