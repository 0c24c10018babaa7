package main

import "q.log/lpsimplex/cmd"

func main() {
	cmd.Execute()
}
