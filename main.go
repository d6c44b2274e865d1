package main

import "github.com/opencivic/councilvotes/cmd"

func main() {
	cmd.Execute()
}
