package main

import "github.com/repodigest/repodigest/cmd"

func main() {
	cmd.Execute()
}
