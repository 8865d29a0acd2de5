package utils

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// DetectLanguageFromFileName returns the chroma lexer name for a source file.
func DetectLanguageFromFileName(fileName string) string {
	if lexer := lexers.Match(fileName); lexer != nil {
		return lexer.Config().Name
	}
	return "typescript"
}

// HighlightLines writes the lines to w with terminal syntax highlighting.
func HighlightLines(w io.Writer, lines []string, fileName string, theme string) error {
	if len(lines) == 0 {
		return nil
	}
	source := strings.Join(lines, "\n") + "\n"
	return quick.Highlight(w, source, DetectLanguageFromFileName(fileName), "terminal256", theme)
}
