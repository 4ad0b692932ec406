package boxfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/matzehuels/boxtower/pkg/dag"
)

// maxLineSize bounds a single declaration line.
const maxLineSize = 1 << 20

var lineRE = regexp.MustCompile(
	`^\s*([\w-]+)` + // name
		`\s*\(\s*((?:[\w-]+(?:\s*,\s*[\w-]+|\s+[\w-]+)*)?)\s*\)` + // deps
		`\s*(?:\.([\w-]+))?` + // style
		`\s*(?::\s*(.*))?$`, // label
)

var depSplitRE = regexp.MustCompile(`[\s,]+`)

// Decl is a single parsed declaration line.
type Decl struct {
	Name  string
	Deps  []string
	Style string
	Label string
}

// SyntaxError reports a line that is neither a declaration, a comment nor
// blank.
type SyntaxError struct {
	Line int // 1-based, 0 when parsing a single line
	Text string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error on line %d: `%s`", e.Line, e.Text)
	}
	return fmt.Sprintf("syntax error: `%s`", e.Text)
}

// LineError attaches a line number to a graph error, such as a duplicate
// node or a dependency that was not declared yet.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// ParseLine parses one line. It returns ok=false with a nil error for blank
// lines and comments.
func ParseLine(line string) (d Decl, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' {
		return Decl{}, false, nil
	}
	m := lineRE.FindStringSubmatch(strings.TrimRight(line, " \t\r"))
	if m == nil {
		return Decl{}, false, &SyntaxError{Text: line}
	}
	d = Decl{Name: m[1], Style: m[3], Label: m[4]}
	if deps := strings.TrimSpace(m[2]); deps != "" {
		d.Deps = depSplitRE.Split(deps, -1)
	}
	if d.Style == "" {
		d.Style = dag.DefaultStyle
	}
	return d, true, nil
}

// Parse reads a BOX document and builds the graph it declares. Parsing stops
// at the first bad line; no partial graph is returned.
func Parse(r io.Reader) (*dag.DAG, error) {
	g := dag.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		d, ok, err := ParseLine(scanner.Text())
		if err != nil {
			err.(*SyntaxError).Line = lineNo
			return nil, err
		}
		if !ok {
			continue
		}
		if err := g.Add(dag.Node{ID: d.Name, Deps: d.Deps, Style: d.Style, Label: d.Label}); err != nil {
			return nil, &LineError{Line: lineNo, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string) (*dag.DAG, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile opens path and parses it with [Parse].
func ParseFile(path string) (*dag.DAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Write serializes g back into BOX syntax in insertion order. The ground
// node is implicit and omitted, as are dependencies on it, default styles
// and empty labels. Parsing the output yields an equivalent graph.
func Write(w io.Writer, g *dag.DAG) error {
	bw := bufio.NewWriter(w)
	for _, n := range g.Nodes() {
		if n.IsGround() {
			continue
		}
		var deps []string
		for _, dep := range n.Deps {
			if dep != dag.Ground {
				deps = append(deps, dep)
			}
		}
		// Ground has no BOX syntax. Every other dependency reaches it, so
		// dropping it keeps the direct-dependency relation intact.
		fmt.Fprintf(bw, "%s(%s)", n.ID, strings.Join(deps, ", "))
		if n.Style != dag.DefaultStyle {
			fmt.Fprintf(bw, ".%s", n.Style)
		}
		if n.Label != "" {
			fmt.Fprintf(bw, ": %s", n.Label)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns the BOX serialization of g.
func Format(g *dag.DAG) string {
	var sb strings.Builder
	_ = Write(&sb, g)
	return sb.String()
}
