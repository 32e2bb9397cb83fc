package main

import "github.com/ltilibrary/lti-go/internal/cli"

func main() {
	cli.Execute()
}
