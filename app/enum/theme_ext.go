package enum

// Toggle returns the opposite theme. Anything that is not dark flips to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ThemeFromMarker maps a raw marker or stored value to a theme.
// Empty and unknown values resolve to light.
func ThemeFromMarker(s string) Theme {
	if s == ThemeDark.String() {
		return ThemeDark
	}
	return ThemeLight
}
