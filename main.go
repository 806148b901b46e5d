package main

import "github.com/meitrex/course-service/cmd"

func main() {
	cmd.Execute()
}
