package main

import (
	"github.com/quizrally/quizrally-go/internal/cli"
)

func main() {
	cli.Execute()
}
