package enka

import (
	"fmt"
	"strings"
)

// Details is the displayable summary of one character, filled in
// best-effort from whichever fields the payload version carries.
type Details struct {
	Name       string
	Level      string
	Weapon     string
	RelicCount int
	IconURL    string
}

// Describe builds Details for ch using the field heuristics the
// payload versions are known to use. Missing data leaves the zero
// value ("?" for Level) rather than failing.
func Describe(ch Character) Details {
	d := Details{Name: ch.Name, Level: "?"}

	raw, ok := ch.Raw.(map[string]any)
	if !ok {
		return d
	}

	if ch.Name == "" {
		d.Name = displayName(raw, []string{"name", "avatarName"})
	}

	for _, k := range []string{"level", "rarity", "fetter", "levelText"} {
		if s := asDisplay(raw[k]); s != "" {
			d.Level = s
			break
		}
	}

	for _, k := range []string{"weapon", "equipment"} {
		w, ok := raw[k].(map[string]any)
		if !ok {
			continue
		}
		if s := asDisplay(w["name"]); s != "" {
			d.Weapon = s
			break
		}
		if s := asDisplay(w["icon"]); s != "" {
			d.Weapon = s
			break
		}
	}

	for _, k := range []string{"reliquaries", "artifacts", "relics"} {
		if list, ok := raw[k].([]any); ok && len(list) > 0 {
			d.RelicCount = len(list)
			break
		}
	}

	for _, k := range []string{"icon", "avatarIcon", "image", "avatarIconUrl", "iconUrl"} {
		if s, ok := raw[k].(string); ok && strings.HasPrefix(s, "http") {
			d.IconURL = s
			break
		}
	}

	return d
}

// Text renders the details as a reply message.
func (d Details) Text() string {
	lines := []string{
		fmt.Sprintf("Name: %s", d.Name),
		fmt.Sprintf("Level / progress: %s", d.Level),
	}
	if d.Weapon != "" {
		lines = append(lines, fmt.Sprintf("Weapon: %s", d.Weapon))
	}
	if d.RelicCount > 0 {
		lines = append(lines, fmt.Sprintf("Artifacts: %d equipped", d.RelicCount))
	}
	return strings.Join(lines, "\n")
}
