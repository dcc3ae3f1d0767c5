package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDataset(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Your Name", ds.Profile().Name)
	assert.Equal(t, "https://github.com/yourusername", ds.Profile().SocialLinks.GitHub)
	assert.Len(t, ds.Education(), 1)
	assert.Len(t, ds.Skills(), 6)
	assert.Len(t, ds.Projects(false), 3)
	assert.Len(t, ds.Projects(true), 2)

	edu := ds.Education()[0]
	assert.Equal(t, 2020, edu.StartDate.Year())
	require.NotNil(t, edu.EndDate)
	assert.True(t, edu.IsActive)
}

func TestProjectsReturnsCopies(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	first := ds.Projects(false)
	first[0].Title = "mutated"
	first[0].Technologies[0] = "mutated"

	again := ds.Projects(false)
	assert.Equal(t, "E-Commerce Platform", again[0].Title)
	assert.Equal(t, "React", again[0].Technologies[0])
}

func TestProjectLookup(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	p, ok := ds.Project("3")
	require.True(t, ok)
	assert.Equal(t, "Weather Dashboard", p.Title)

	_, ok = ds.Project("missing")
	assert.False(t, ok)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	content := []byte("profile:\n  id: default\n  name: Ada\n  title: Engineer\nprojects:\n  - id: p1\n    title: Engine\n    featured: true\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", ds.Profile().Name)
	assert.Len(t, ds.Projects(true), 1)
	assert.Empty(t, ds.Skills())
}

func TestParseRejectsMissingProfile(t *testing.T) {
	_, err := Parse([]byte("skills: []\n"))
	assert.Error(t, err)
}
