package lti

import "strings"

// NormalizeCustomParameterName applies the LTI custom parameter naming rule: every character
// outside [0-9a-zA-Z] becomes '_', the result is lower-cased and prefixed with "custom_"
// unless it already starts with "custom_" or "ext_".
func NormalizeCustomParameterName(name string) string {
	var sb strings.Builder
	sb.Grow(len(customPrefix) + len(name))
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			sb.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			sb.WriteRune(c + ('a' - 'A'))
		default:
			sb.WriteByte('_')
		}
	}
	normalized := sb.String()

	if strings.HasPrefix(normalized, customPrefix) || strings.HasPrefix(normalized, extensionPrefix) {
		return normalized
	}
	return customPrefix + normalized
}

// AddCustomParameter adds a custom (or ext_) parameter under its normalized name.
func (r *Request) AddCustomParameter(name, value string) {
	r.params.Add(NormalizeCustomParameterName(name), value)
}

// CustomParameters returns the custom_ and ext_ parameters. A repeated name keeps its first value.
func (r *Request) CustomParameters() map[string]string {
	custom := make(map[string]string)
	for _, p := range r.params.All() {
		if isSubstitutable(p.Name) {
			if _, seen := custom[p.Name]; !seen {
				custom[p.Name] = p.Value
			}
		}
	}
	return custom
}

func isSubstitutable(name string) bool {
	return strings.HasPrefix(name, customPrefix) || strings.HasPrefix(name, extensionPrefix)
}
