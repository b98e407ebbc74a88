package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		prefixes []string
		suffixes []string
		want     []string
	}{
		{"no templates", nil, nil, []string{"MongoDB"}},
		{"defaults", []string{"learning", "Programming with"}, []string{"tutorials"},
			[]string{"learning MongoDB", "Programming with MongoDB", "MongoDB tutorials"}},
		{"prefixes only", []string{"learn"}, nil, []string{"learn MongoDB"}},
		{"suffixes only", nil, []string{"docs", "examples"}, []string{"MongoDB docs", "MongoDB examples"}},
		{"duplicates kept", []string{"learn", "learn"}, nil, []string{"learn MongoDB", "learn MongoDB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand("MongoDB", tt.prefixes, tt.suffixes)
			assert.Equal(t, tt.want, got)
			if len(tt.prefixes)+len(tt.suffixes) > 0 {
				assert.Len(t, got, len(tt.prefixes)+len(tt.suffixes))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tpl := DefaultTemplates()
	assert.Equal(t, []string{"golang"}, Resolve("golang", false, tpl))
	assert.Equal(t, []string{"learning golang", "Programming with golang", "golang tutorials"}, Resolve("golang", true, tpl))
	assert.Equal(t, []string{"golang"}, Resolve("golang", true, Templates{}))
}

func TestDefaultTemplates_FreshCopies(t *testing.T) {
	a := DefaultTemplates()
	a.Prefixes[0] = "mutated"
	a.Suffixes = append(a.Suffixes, "extra")

	b := DefaultTemplates()
	assert.Equal(t, "learning", b.Prefixes[0])
	assert.Equal(t, []string{"tutorials"}, b.Suffixes)
}

func TestTemplates_Clone(t *testing.T) {
	a := Templates{Prefixes: []string{"x"}}
	b := a.Clone()
	b.Prefixes[0] = "y"
	assert.Equal(t, "x", a.Prefixes[0])
}

func TestLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefixes:\n  - intro to\nsuffixes:\n  - cheatsheet\n  - examples\n"), 0o644))

	tpl, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro to"}, tpl.Prefixes)
	assert.Equal(t, []string{"cheatsheet", "examples"}, tpl.Suffixes)
}

func TestLoadTemplates_EmptyPath(t *testing.T) {
	tpl, err := LoadTemplates("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplates(), tpl)
}

func TestLoadTemplates_Errors(t *testing.T) {
	_, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseTemplates([]byte("prefixes: {not: [a list"))
	assert.Error(t, err)
}
