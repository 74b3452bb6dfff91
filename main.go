package main

import "github.com/squarefactory/slurm-api/cmd"

func main() {
	cmd.Execute()
}
