package code_analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Each pattern is compiled on its own so that a node type missing from one grammar only
// disables that pattern.
var moduleSourceQueries = []string{
	`(import_statement source: (string) @source)`,
	`(export_statement source: (string) @source)`,
	`(call_expression function: (identifier) @callee arguments: (arguments . (string) @source))`,
	`(call_expression function: (import) arguments: (arguments . (string) @source))`,
}

type grammar struct {
	name     string
	language *sitter.Language
	once     sync.Once
	queries  []*sitter.Query
}

// treeSitterExtractor walks the syntax tree instead of matching text, so commented-out
// imports are ignored and re-exports are seen.
type treeSitterExtractor struct {
	grammars map[string]*grammar
	fallback ImportExtractor
	logger   *pterm.Logger
}

// NewTreeSitterExtractor returns the "ast" extractor. Files in languages it has no grammar
// for go through the regex extractor.
func NewTreeSitterExtractor(logger *pterm.Logger) ImportExtractor {
	tsGrammar := &grammar{name: "typescript", language: typescript.GetLanguage()}
	tsxGrammar := &grammar{name: "tsx", language: tsx.GetLanguage()}
	jsGrammar := &grammar{name: "javascript", language: javascript.GetLanguage()}

	return &treeSitterExtractor{
		grammars: map[string]*grammar{
			".ts":  tsGrammar,
			".mts": tsGrammar,
			".cts": tsGrammar,
			".tsx": tsxGrammar,
			".js":  jsGrammar,
			".jsx": jsGrammar,
			".mjs": jsGrammar,
			".cjs": jsGrammar,
		},
		fallback: NewRegexExtractor(),
		logger:   logger,
	}
}

func (e *treeSitterExtractor) Name() string {
	return ExtractorAST
}

func (e *treeSitterExtractor) Extract(filePath string, source []byte) ([]string, error) {
	g, ok := e.grammars[strings.ToLower(filepath.Ext(filePath))]
	if !ok {
		return e.fallback.Extract(filePath, source)
	}

	queries := e.compiledQueries(g)
	if len(queries) == 0 {
		return e.fallback.Extract(filePath, source)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.language)

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	found := make(map[string]struct{})
	for _, query := range queries {
		cursor := sitter.NewQueryCursor()
		cursor.Exec(query, tree.RootNode())

		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}

			var callee, specifier string
			hasSource := false
			for _, capture := range match.Captures {
				switch query.CaptureNameForId(capture.Index) {
				case "callee":
					callee = capture.Node.Content(source)
				case "source":
					specifier = unquote(capture.Node.Content(source))
					hasSource = true
				}
			}

			if !hasSource || specifier == "" {
				continue
			}
			if callee != "" && callee != "require" {
				continue
			}
			found[specifier] = struct{}{}
		}
	}

	return sortedKeys(found), nil
}

// compiledQueries compiles the query set for a grammar once.
func (e *treeSitterExtractor) compiledQueries(g *grammar) []*sitter.Query {
	g.once.Do(func() {
		for _, pattern := range moduleSourceQueries {
			query, err := sitter.NewQuery([]byte(pattern), g.language)
			if err != nil {
				if e.logger != nil {
					e.logger.Debug("tree-sitter query not supported by grammar",
						e.logger.Args("grammar", g.name, "query", pattern, "error", err))
				}
				continue
			}
			g.queries = append(g.queries, query)
		}
		if len(g.queries) == 0 && e.logger != nil {
			e.logger.Warn("no tree-sitter queries compiled, using regex extraction",
				e.logger.Args("grammar", g.name))
		}
	})
	return g.queries
}

func unquote(literal string) string {
	if len(literal) >= 2 {
		first, last := literal[0], literal[len(literal)-1]
		if (first == '"' || first == '\'') && first == last {
			return literal[1 : len(literal)-1]
		}
	}
	return literal
}
