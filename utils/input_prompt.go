package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/neon/webtidy/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and reads the answer from reader.
// Anything other than "y" or "yes" is a no, and so is EOF.
func ConfirmPrompt(question string, reader *bufio.Reader) (bool, error) {
	fmt.Print(lipgloss.BlueSky.Render(question + " (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
