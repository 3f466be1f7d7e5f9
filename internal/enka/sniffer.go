package enka

import (
	"sort"
	"strconv"
)

// Character is one normalized entry dug out of an inspection payload.
// Raw references the original subtree; it shares memory with the
// payload and is only valid for the request that produced it. A
// character's position in the returned slice is its selection index;
// the index must be re-derived after every fetch because the upstream
// may reorder.
type Character struct {
	Name string
	Raw  any
}

// markerKeys are field names whose presence marks a map as
// character-like during the recursive search.
var markerKeys = []string{"name", "avatarName", "icon", "id", "avatarId", "character"}

// maxSearchDepth bounds the recursive fallback so a pathological
// payload cannot recurse without limit.
const maxSearchDepth = 12

// ExtractCharacters locates the list of character records inside an
// arbitrarily-shaped payload. It tries, in strict priority order and
// stopping at the first non-empty result:
//
//  1. the avatarInfoList field of the most common payload version;
//  2. a broader set of plausible top-level fields used by older and
//     alternate versions;
//  3. a depth-bounded recursive search for any sequence that contains
//     at least one character-like map.
//
// Absence of data is an empty result, never an error. The fallback
// can misfire on payloads carrying marker-key-shaped data elsewhere;
// that is a known limitation of the heuristic.
func ExtractCharacters(payload any) []Character {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil
	}

	// 1. Known top-level key, known shape.
	if list, ok := root["avatarInfoList"].([]any); ok {
		if out := normalize(list, []string{"name", "avatarName", "icon", "id"}, false); len(out) > 0 {
			return out
		}
	}

	// 2. Known top-level keys, generic shape.
	for _, key := range []string{"avatars", "characters", "data", "playerInfo", "player"} {
		list, ok := root[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if out := normalize(list, []string{"name", "avatarName", "character", "icon"}, false); len(out) > 0 {
			return out
		}
	}

	// 3. Recursive structural search. The whole first matching
	// sequence is kept, elements without a marker key included.
	if list := findCharacterList(root, 0, looksLikeCharacter); list != nil {
		return normalize(list, []string{"name", "avatarName", "icon"}, true)
	}

	return nil
}

// looksLikeCharacter reports whether el carries any marker key. It is
// the default predicate for the recursive search.
func looksLikeCharacter(el map[string]any) bool {
	for _, k := range markerKeys {
		if _, ok := el[k]; ok {
			return true
		}
	}
	return false
}

// findCharacterList walks nested maps depth-first, keys in sorted
// order so traversal is deterministic, and returns the first sequence
// in which pred accepts at least one map element. Sequences are not
// descended into.
func findCharacterList(v any, depth int, pred func(map[string]any) bool) []any {
	if depth > maxSearchDepth {
		return nil
	}
	switch node := v.(type) {
	case []any:
		for _, el := range node {
			if m, ok := el.(map[string]any); ok && pred(m) {
				return node
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if res := findCharacterList(node[k], depth+1, pred); res != nil {
				return res
			}
		}
	}
	return nil
}

// normalize maps raw list elements to Characters in upstream order.
// With keepAll set, elements that are not maps (or have no usable
// name) are still kept under the fallback name, preserving positional
// indexes over the whole sequence.
func normalize(list []any, nameKeys []string, keepAll bool) []Character {
	out := make([]Character, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			if keepAll {
				out = append(out, Character{Name: "Unknown", Raw: el})
			}
			continue
		}
		out = append(out, Character{Name: displayName(m, nameKeys), Raw: el})
	}
	return out
}

// displayName returns the first non-empty name-ish value of m, or
// "Unknown".
func displayName(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s := asDisplay(m[k]); s != "" {
			return s
		}
	}
	return "Unknown"
}

// asDisplay renders a scalar as display text. JSON numbers arrive as
// float64 and are printed without an exponent so IDs stay readable.
func asDisplay(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
