package main

import (
	"github.com/mvp-joe/apidrift/internal/cli"
)

func main() {
	cli.Execute()
}
