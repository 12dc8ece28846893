package main

import (
	"fmt"
	"os"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
