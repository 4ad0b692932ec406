package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/boxtower/pkg/dag"
	coded "github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/integrations"
)

const sampleBox = `# three layers
core()
util(core).yellow: Utilities
app(core, util).blue: Main\app
`

// hellBox has no tower drawing: c and d would both have to straddle a
// and b at the same height.
const hellBox = `a()
b()
c(a, b)
d(a, b)
`

type harness struct {
	dir    string
	config string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	captureUI(t)
	h := &harness{dir: t.TempDir()}
	h.config = filepath.Join(h.dir, "config.toml")
	cfg := "[cache]\ndir = " + quote(filepath.Join(h.dir, "cache")) + "\n"
	if err := os.WriteFile(h.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return h
}

func quote(s string) string { return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"` }

func (h *harness) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	c := New(&h.stdout, &h.stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append(args, "--config", h.config))
	root.SetOut(&h.stderr)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func TestRenderToStdout(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("render", in); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := h.stdout.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Fatalf("stdout is not an SVG document:\n%s", out)
	}
	for _, want := range []string{"Utilities", "<tspan", `class="blue"`} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderWithStyleSheet(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)
	css := h.file(t, "theme.css", ".blue { fill: navy; }")

	if err := h.run("render", in, css); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "fill: navy") {
		t.Error("user style sheet not included")
	}
}

func TestRenderSeedIsDeterministic(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("render", in, "--seed", "7", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	first := h.stdout.String()
	if err := h.run("render", in, "--seed", "7", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if h.stdout.String() != first {
		t.Error("same seed produced different drawings")
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)
	base := filepath.Join(h.dir, "out", "tower")

	if err := h.run("render", in, "-f", "svg,json", "-o", base+".svg"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
	}
	if h.stdout.Len() != 0 {
		t.Error("nothing should go to stdout when writing files")
	}
}

func TestRenderInfeasible(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "hell.box", hellBox)

	err := h.run("render", in)
	if got := ExitCode(err); got != ExitInfeasible {
		t.Fatalf("ExitCode = %d, want %d (err: %v)", got, ExitInfeasible, err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "You seem to be in dependency hell." {
		t.Errorf("stdout = %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		args func() []string
		code int
	}{
		{
			name: "syntax",
			args: func() []string { return []string{"render", h.file(t, "bad.box", "a()\nthis is not box\n")} },
			code: ExitInput,
		},
		{
			name: "unknown dependency",
			args: func() []string { return []string{"render", h.file(t, "fwd.box", "a(b)\nb()\n")} },
			code: ExitInput,
		},
		{
			name: "bad format",
			args: func() []string { return []string{"render", h.file(t, "ok.box", sampleBox), "-f", "gif"} },
			code: ExitInput,
		},
		{
			name: "missing file",
			args: func() []string { return []string{"render", filepath.Join(h.dir, "nope.box")} },
			code: ExitError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.run(tt.args()...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != tt.code {
				t.Errorf("ExitCode = %d, want %d (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLayoutJSON(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("layout", in, "--height-policy", "full"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{`"rects"`, `"height_policy": "full"`, `"optimal": true`} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output missing %s:\n%s", want, out)
		}
	}
}

func TestDepsTable(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("deps", in, "app"); err != nil {
		t.Fatalf("deps: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "app") || !strings.Contains(out, "core, util") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "Utilities") {
		t.Error("deps should list ids, not labels")
	}

	err := h.run("deps", in, "nope")
	if !errors.Is(err, dag.ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestGraphDOT(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("graph", in, "--transitive"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "dashed") {
		t.Errorf("unexpected DOT:\n%s", out)
	}
}

func newNPMRegistry(t *testing.T) string {
	t.Helper()
	docs := map[string]string{
		"/app":         `{"name": "app", "dist-tags": {"latest": "2.0.0"}, "versions": {"2.0.0": {"dependencies": {"lib": "^1.0.0", "@org/util": "1.0.0"}}}}`,
		"/lib":         `{"name": "lib", "dist-tags": {"latest": "1.0.0"}, "versions": {"1.0.0": {"dependencies": {"@org/util": "1.0.0"}}}}`,
		"/@org%2Futil": `{"name": "@org/util", "dist-tags": {"latest": "1.0.0"}, "versions": {"1.0.0": {}}}`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.EscapedPath()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(doc))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestScrapeNPM(t *testing.T) {
	h := newHarness(t)
	registry := newNPMRegistry(t)

	if err := h.run("scrape", "npm", "app", "--registry", registry); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	want := "_org_util(): @org/util\nlib(_org_util)\napp(_org_util, lib)\n"
	if got := h.stdout.String(); got != want {
		t.Errorf("stdout:\n%s\nwant:\n%s", got, want)
	}

	out := filepath.Join(h.dir, "app.box")
	if err := h.run("scrape", "npm", "app", "--registry", registry, "-o", out); err != nil {
		t.Fatalf("scrape -o: %v", err)
	}
	if err := h.run("render", out); err != nil {
		t.Fatalf("render scraped file: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "@org/util") {
		t.Error("rendered tower is missing the scoped package label")
	}
}

func TestScrapeNPMNotFound(t *testing.T) {
	h := newHarness(t)
	err := h.run("scrape", "npm", "missing", "--registry", newNPMRegistry(t), "--no-cache")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if got := ExitCode(err); got != ExitInput {
		t.Errorf("ExitCode = %d, want %d", got, ExitInput)
	}
}

func TestCacheCommands(t *testing.T) {
	h := newHarness(t)
	in := h.file(t, "deps.box", sampleBox)

	if err := h.run("cache", "path"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != filepath.Join(h.dir, "cache") {
		t.Errorf("cache path = %q", got)
	}

	if err := h.run("render", in); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(filepath.Join(h.dir, "cache"))
	if len(entries) == 0 {
		t.Fatal("render should populate the cache")
	}

	if err := h.run("cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = os.ReadDir(filepath.Join(h.dir, "cache"))
	if len(entries) != 0 {
		t.Errorf("cache not empty after clear: %d entries", len(entries))
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: ExitOK},
		{name: "canceled", err: context.Canceled, want: ExitInterrupted},
		{name: "syntax", err: coded.New(coded.ErrCodeInvalidSyntax, "x"), want: ExitInput},
		{name: "infeasible", err: coded.New(coded.ErrCodeLayoutInfeasible, "x"), want: ExitInfeasible},
		{name: "other", err: errors.New("boom"), want: ExitError},
		{name: "reported", err: &exitError{code: 42, err: errors.New("x")}, want: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if code := Report(&buf, &exitError{code: ExitInfeasible, err: errors.New("x")}); code != ExitInfeasible || buf.Len() != 0 {
		t.Errorf("already reported error printed again: %q", buf.String())
	}
	Report(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Report output = %q", buf.String())
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ output, input, want string }{
		{"", "deps.box", "deps"},
		{"", "-", "tower"},
		{"out/t.svg", "deps.box", "out/t"},
		{"out/t.v2", "deps.box", "out/t.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
