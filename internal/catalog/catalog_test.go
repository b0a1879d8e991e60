package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jask/setupflow/internal/catalog"
)

func TestSearch(t *testing.T) {
	pkgs := catalog.Default()
	assert.Len(t, catalog.Search(pkgs, ""), len(pkgs))

	res := catalog.Search(pkgs, "  GIT ")
	if assert.Len(t, res, 1) {
		assert.Equal(t, "Git.Git", res[0].ID)
	}
	assert.Empty(t, catalog.Search(pkgs, "nothing-like-this"))
}

func TestProviderSelection(t *testing.T) {
	git := catalog.Package{ID: "Git.Git", Name: "Git"}
	code := catalog.Package{ID: "Microsoft.VisualStudioCode", Name: "Visual Studio Code"}

	p := catalog.NewProvider()
	assert.True(t, p.Toggle(git))
	p.Select(code)
	p.Select(code)
	assert.Equal(t, []catalog.Package{git, code}, p.Selected())

	assert.False(t, p.Toggle(git))
	assert.False(t, p.IsSelected(git.ID))
	assert.True(t, p.IsSelected(code.ID))

	p.Clear()
	assert.Empty(t, p.Selected())
	p.Clear()
}

func TestDefaultIsACopy(t *testing.T) {
	pkgs := catalog.Default()
	pkgs[0].Name = "changed"
	assert.NotEqual(t, "changed", catalog.Default()[0].Name)
}
