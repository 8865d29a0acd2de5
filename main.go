package main

import (
	"fmt"
	"os"

	"github.com/neon/webtidy/cmd"
	"github.com/neon/webtidy/constants/lipgloss"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(err.Error()))
		os.Exit(1)
	}
}
