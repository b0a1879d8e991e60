// Package catalog lists installable packages and tracks which ones the
// user picked for the current flow.
package catalog

import (
	"slices"
	"strings"
	"sync"
)

type (
	Package struct {
		ID          string
		Name        string
		Description string
	}

	// Provider is the package selection for one flow.
	Provider struct {
		mu       sync.Mutex
		selected []Package
	}
)

var defaultPackages = []Package{
	{ID: "Git.Git", Name: "Git", Description: "Distributed version control"},
	{ID: "Microsoft.VisualStudioCode", Name: "Visual Studio Code", Description: "Code editor"},
	{ID: "Microsoft.PowerShell", Name: "PowerShell", Description: "Cross-platform shell"},
	{ID: "GoLang.Go", Name: "Go", Description: "Go toolchain"},
	{ID: "Python.Python.3", Name: "Python 3", Description: "Python interpreter"},
	{ID: "OpenJS.NodeJS.LTS", Name: "Node.js LTS", Description: "JavaScript runtime"},
	{ID: "Docker.DockerDesktop", Name: "Docker Desktop", Description: "Container tooling"},
	{ID: "Microsoft.WindowsTerminal", Name: "Windows Terminal", Description: "Terminal emulator"},
}

// Default returns the built-in package list.
func Default() []Package {
	return slices.Clone(defaultPackages)
}

// Search keeps the packages whose id, name or description contains query,
// ignoring case. An empty query matches everything.
func Search(pkgs []Package, query string) []Package {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(pkgs)
	}
	var res []Package
	for _, p := range pkgs {
		if strings.Contains(strings.ToLower(p.ID), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			res = append(res, p)
		}
	}
	return res
}

func NewProvider() *Provider {
	return &Provider{}
}

// Toggle selects p if it is not selected and deselects it otherwise. It
// reports whether p is selected afterwards.
func (s *Provider) Toggle(p Package) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return false
	}
	s.selected = append(s.selected, p)
	return true
}

func (s *Provider) Select(p Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(p.ID) < 0 {
		s.selected = append(s.selected, p)
	}
}

func (s *Provider) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Selected returns the selection in the order it was made.
func (s *Provider) Selected() []Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

func (s *Provider) Clear() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func (s *Provider) indexOf(id string) int {
	return slices.IndexFunc(s.selected, func(p Package) bool { return p.ID == id })
}
