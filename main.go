package main

import "github.com/harrisonrobin/taskmate/pkg/cli"

func main() {
	cli.Execute()
}
