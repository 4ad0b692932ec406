package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version == "" || i.Commit == "" || i.Date == "" {
		t.Fatalf("Get() left fields empty: %+v", i)
	}
	if Get() != i {
		t.Error("Get() should be stable")
	}
	if !strings.HasPrefix(i.String(), "version: "+i.Version) {
		t.Errorf("String() = %q", i.String())
	}
	if !strings.Contains(Template(), "{{.Name}} "+i.Version) {
		t.Errorf("Template() = %q", Template())
	}
}
