package main

import "jira-sprints/cmd"

func main() {
	cmd.Execute()
}
