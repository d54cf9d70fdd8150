package domain

import (
	"go/ast"
	"go/token"
	"regexp"
	"strings"
	"unicode"
)

// ignoreKind is a coverage hint. Hints combine as a bit set.
type ignoreKind uint8

const (
	ignoreNext ignoreKind = 1 << iota
	ignoreIf
	ignoreElse
	ignoreFile
)

var hintPrefixes = []string{"istanbul ignore", "goistanbul ignore", "goistanbul:ignore"}

// hintKind matches the kind after a prefix; any non-word character may follow
// it, as in "next: only on windows".
var hintKind = regexp.MustCompile(`(?i)^\s+(next|if|else|file)\b`)

func (k ignoreKind) has(other ignoreKind) bool {
	return k&other != 0
}

// parseIgnoreDirective recognizes "// istanbul ignore <kind>" hints. Text
// after the kind is an explanation and is ignored.
func parseIgnoreDirective(commentText string) (ignoreKind, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	var rest string

	matched := false

	for _, prefix := range hintPrefixes {
		if strings.HasPrefix(s, prefix) {
			rest = strings.TrimPrefix(s, prefix)
			matched = true

			break
		}
	}

	if !matched {
		return 0, false
	}

	if strings.TrimSpace(rest) == "" {
		return ignoreNext, true
	}

	match := hintKind.FindStringSubmatch(rest)
	if match == nil {
		return 0, false
	}

	switch strings.ToLower(match[1]) {
	case "next":
		return ignoreNext, true
	case "if":
		return ignoreIf, true
	case "else":
		return ignoreElse, true
	default:
		return ignoreFile, true
	}
}

// ignoreIndex maps hints onto the nodes they apply to. A leading comment
// applies to the following line, a trailing one to its own line.
type ignoreIndex struct {
	file      bool
	funcByPos map[token.Pos]ignoreKind
	line      map[int]ignoreKind
}

func buildIgnoreIndex(file *ast.File, fset *token.FileSet, content []byte) ignoreIndex {
	funcByPos, funcDocGroups := buildFuncIgnoreRules(file)
	lineRules := buildLineIgnoreRules(file, fset, content, funcDocGroups)

	return ignoreIndex{
		file:      buildFileIgnoreRule(file),
		funcByPos: funcByPos,
		line:      lineRules,
	}
}

// at returns the hints that apply to a node starting at pos.
func (idx ignoreIndex) at(fset *token.FileSet, pos token.Pos) ignoreKind {
	kind := idx.funcByPos[pos]

	if line := fset.Position(pos).Line; line > 0 {
		kind |= idx.line[line]
	}

	return kind
}

func buildFuncIgnoreRules(file *ast.File) (map[token.Pos]ignoreKind, map[*ast.CommentGroup]struct{}) {
	funcByPos := make(map[token.Pos]ignoreKind)
	funcDocGroups := map[*ast.CommentGroup]struct{}{}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}

		funcDocGroups[fd.Doc] = struct{}{}

		var kind ignoreKind

		for _, c := range fd.Doc.List {
			if k, ok := parseIgnoreDirective(c.Text); ok && k != ignoreFile {
				kind |= k
			}
		}

		if kind != 0 {
			funcByPos[fd.Pos()] = kind
		}
	}

	return funcByPos, funcDocGroups
}

func buildFileIgnoreRule(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.End() >= file.Package && group != file.Doc {
			continue
		}

		for _, c := range group.List {
			if k, ok := parseIgnoreDirective(c.Text); ok && k == ignoreFile {
				return true
			}
		}
	}

	return false
}

func buildLineIgnoreRules(
	file *ast.File,
	fset *token.FileSet,
	content []byte,
	funcDocGroups map[*ast.CommentGroup]struct{},
) map[int]ignoreKind {
	lineRules := make(map[int]ignoreKind)
	lineStarts := computeLineStarts(content)

	for _, group := range file.Comments {
		if group.End() < file.Package {
			continue
		}

		if _, ok := funcDocGroups[group]; ok {
			continue
		}

		for _, c := range group.List {
			k, ok := parseIgnoreDirective(c.Text)
			if !ok || k == ignoreFile {
				continue
			}

			pos := fset.PositionFor(c.Slash, true)
			if pos.Line <= 0 {
				continue
			}

			targetLine := pos.Line
			if isLeadingComment(pos.Line, pos.Offset, lineStarts, content) {
				targetLine = fset.PositionFor(group.End(), true).Line + 1
			}

			lineRules[targetLine] |= k
		}
	}

	return lineRules
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, slashOffset int, lineStarts []int, content []byte) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if slashOffset < start || slashOffset > len(content) {
		return false
	}

	for _, b := range content[start:slashOffset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
