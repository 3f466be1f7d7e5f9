package enka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse decodes a JSON document the way the fetcher does.
func parse(t *testing.T, doc string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return payload
}

func TestExtract_KnownShape(t *testing.T) {
	payload := parse(t, `{"avatarInfoList": [{"name":"Bennett","level":80}]}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 1)
	assert.Equal(t, "Bennett", chars[0].Name)

	raw, ok := chars[0].Raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(80), raw["level"], "raw must reference the original subtree")
}

func TestExtract_GenericTopLevelKey(t *testing.T) {
	payload := parse(t, `{"characters": [{"avatarName":"Raiden"}]}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 1)
	assert.Equal(t, "Raiden", chars[0].Name)
}

func TestExtract_RecursiveFallback(t *testing.T) {
	payload := parse(t, `{"player":{"showcase":[{"id":10000002}]}}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 1)
	assert.Equal(t, "Unknown", chars[0].Name, "id is a marker key but not a display name")
}

func TestExtract_EmptyPayload(t *testing.T) {
	chars := ExtractCharacters(parse(t, `{}`))
	assert.Empty(t, chars, "no data is a valid empty result, not an error")
}

func TestExtract_NonObjectPayload(t *testing.T) {
	assert.Empty(t, ExtractCharacters("not json object"))
	assert.Empty(t, ExtractCharacters(nil))
}

func TestExtract_PriorityOrder(t *testing.T) {
	// avatarInfoList wins over the generic keys even when both exist.
	payload := parse(t, `{
		"avatars": [{"name":"FromAvatars"}],
		"avatarInfoList": [{"name":"FromInfoList"}]
	}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 1)
	assert.Equal(t, "FromInfoList", chars[0].Name)
}

func TestExtract_UpstreamOrderPreserved(t *testing.T) {
	payload := parse(t, `{"avatarInfoList": [
		{"name":"Zhongli"},
		{"name":"Amber"},
		{"name":"Xingqiu"}
	]}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 3)
	assert.Equal(t, "Zhongli", chars[0].Name)
	assert.Equal(t, "Amber", chars[1].Name)
	assert.Equal(t, "Xingqiu", chars[2].Name)
}

func TestExtract_Idempotent(t *testing.T) {
	payload := parse(t, `{"data": [{"name":"A"},{"name":"B"}]}`)

	first := ExtractCharacters(payload)
	second := ExtractCharacters(payload)
	assert.Equal(t, first, second)
}

func TestExtract_RecursiveKeepsWholeSequence(t *testing.T) {
	// The matched sequence is kept whole: elements without a marker
	// key, and non-map elements, get the fallback name so positional
	// indexes cover the full upstream list.
	payload := parse(t, `{"nested":{"list":[
		{"avatarName":"Hutao"},
		{"weaponCount": 3},
		"stray"
	]}}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 3)
	assert.Equal(t, "Hutao", chars[0].Name)
	assert.Equal(t, "Unknown", chars[1].Name)
	assert.Equal(t, "Unknown", chars[2].Name)
}

func TestExtract_NumericNameRendered(t *testing.T) {
	payload := parse(t, `{"avatarInfoList": [{"id": 10000021}]}`)

	chars := ExtractCharacters(payload)
	require.Len(t, chars, 1)
	assert.Equal(t, "10000021", chars[0].Name, "numeric ids must not render in exponent form")
}

func TestExtract_DeterministicAcrossSiblings(t *testing.T) {
	// Two sibling branches both hold candidate sequences; sorted-key
	// traversal must always pick the same one.
	payload := parse(t, `{
		"b": {"inner": [{"name":"FromB"}]},
		"a": {"inner": [{"name":"FromA"}]}
	}`)

	for i := 0; i < 5; i++ {
		chars := ExtractCharacters(payload)
		require.Len(t, chars, 1)
		assert.Equal(t, "FromA", chars[0].Name)
	}
}

func TestExtract_DepthBounded(t *testing.T) {
	// Nest a character list beyond the search depth limit; the
	// sniffer must give up cleanly instead of finding it.
	deepDoc := `[{"name":"x"}]`
	for i := 0; i < maxSearchDepth+2; i++ {
		deepDoc = `{"wrap":` + deepDoc + `}`
	}
	assert.Empty(t, ExtractCharacters(parse(t, deepDoc)))

	// The same list within the limit is found.
	shallowDoc := `{"a":{"b":[{"name":"x"}]}}`
	require.NotEmpty(t, ExtractCharacters(parse(t, shallowDoc)))
}
