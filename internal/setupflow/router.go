package setupflow

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Navigation markers recognized in external requests.
const (
	ConfigurationFlowMarker    = "StartConfigurationFlow"
	CreationFlowMarker         = "StartCreationFlow"
	RepositoryConfigurationKey = "RepositoryConfiguration"

	// CreationParameterSeparator splits a creation request into its
	// marker and originating page name.
	CreationParameterSeparator = ";"
)

type (
	// EntryKind enumerates the flow entry points a request can resolve to.
	EntryKind int

	// Route binds a request key to an entry point. Keys match by
	// case-insensitive containment, so route order decides ties.
	Route struct {
		Key  string
		Kind EntryKind
	}

	// Entry is the resolved, typed form of a navigation request.
	Entry interface {
		Kind() EntryKind
	}

	// CreationEntry starts the create-environment flow.
	CreationEntry struct {
		Raw        string
		OriginPage string
	}

	// RepositoryConfigurationEntry starts the repository configuration flow.
	RepositoryConfigurationEntry struct {
		Raw string
	}

	// SetupEntry starts the setup flow for an existing environment.
	SetupEntry struct {
		OriginPage string
		Item       EnvironmentItem
	}

	// Resolution describes how Resolve treated a request.
	Resolution int
)

const (
	EntryCreation EntryKind = iota + 1
	EntryRepositoryConfiguration
	EntrySetup
)

const (
	ResolutionEmpty Resolution = iota
	ResolutionMatched
	ResolutionUnmatched
)

// DefaultRoutes is the fixed navigation table, in priority order.
var DefaultRoutes = []Route{
	{Key: CreationFlowMarker, Kind: EntryCreation},
	{Key: RepositoryConfigurationKey, Kind: EntryRepositoryConfiguration},
}

func (k EntryKind) String() string {
	switch k {
	case EntryCreation:
		return "creation"
	case EntryRepositoryConfiguration:
		return "repository-configuration"
	case EntrySetup:
		return "setup"
	default:
		return "none"
	}
}

func (CreationEntry) Kind() EntryKind                { return EntryCreation }
func (RepositoryConfigurationEntry) Kind() EntryKind { return EntryRepositoryConfiguration }
func (SetupEntry) Kind() EntryKind                   { return EntrySetup }

// Resolve maps request onto an entry using routes. Text requests are matched
// first; a structured [marker, originPage, item] triple is considered only
// when no route key is contained in the request text.
func Resolve(routes []Route, request any) (Entry, Resolution) {
	text, empty := requestText(request)
	if empty {
		return nil, ResolutionEmpty
	}

	for _, r := range routes {
		if r.Key == "" || !containsFold(text, r.Key) {
			continue
		}
		return newTextEntry(r.Kind, text), ResolutionMatched
	}

	if e, ok := resolveTriple(request); ok {
		return e, ResolutionMatched
	}
	return nil, ResolutionUnmatched
}

// ClosestKey returns the route key nearest to request by edit distance, for
// diagnostics only.
func ClosestKey(routes []Route, request any) string {
	text, empty := requestText(request)
	if empty || text == "" || len(routes) == 0 {
		return ""
	}
	text = strings.ToLower(text)
	best, bestDist := "", -1
	for _, r := range routes {
		d := levenshtein.ComputeDistance(text, strings.ToLower(r.Key))
		if bestDist < 0 || d < bestDist {
			best, bestDist = r.Key, d
		}
	}
	return best
}

// RequestText renders request for logging.
func RequestText(request any) string {
	if args, ok := request.([]any); ok {
		return fmt.Sprintf("%v", args)
	}
	text, _ := requestText(request)
	return text
}

func newTextEntry(kind EntryKind, raw string) Entry {
	switch kind {
	case EntryCreation:
		return CreationEntry{Raw: raw, OriginPage: creationOrigin(raw)}
	case EntryRepositoryConfiguration:
		return RepositoryConfigurationEntry{Raw: raw}
	default:
		return SetupEntry{}
	}
}

// creationOrigin extracts the second separator-delimited field. A request
// without one has no attributable origin.
func creationOrigin(raw string) string {
	parts := strings.Split(raw, CreationParameterSeparator)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func resolveTriple(request any) (Entry, bool) {
	args, ok := request.([]any)
	if !ok || len(args) != 3 {
		return nil, false
	}
	marker, ok := args[0].(string)
	if !ok || !strings.EqualFold(marker, ConfigurationFlowMarker) {
		return nil, false
	}
	origin, _ := args[1].(string)
	item, _ := args[2].(EnvironmentItem)
	return SetupEntry{OriginPage: origin, Item: item}, true
}

func requestText(request any) (string, bool) {
	switch r := request.(type) {
	case nil:
		return "", true
	case string:
		return r, r == ""
	case fmt.Stringer:
		s := r.String()
		return s, s == ""
	default:
		// slices carry no matchable text, even when empty
		if k := reflect.ValueOf(r).Kind(); k == reflect.Slice || k == reflect.Array {
			return "", false
		}
		s := fmt.Sprint(r)
		return s, s == ""
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
