package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FontSize accepts either a plain number or an "Npx" string in the project
// document and normalizes both to points.
type FontSize int

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FontSize) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	size, err := ParseFontSize(raw)
	if err != nil {
		return err
	}
	*f = size
	return nil
}

// ParseFontSize converts a raw font size value (int, float, "N" or "Npx")
// into a FontSize.
func ParseFontSize(raw any) (FontSize, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int:
		return FontSize(v), nil
	case float64:
		return FontSize(v), nil
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		s = strings.TrimSuffix(s, "px")
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid font size %q", v)
		}
		return FontSize(n), nil
	default:
		return 0, fmt.Errorf("invalid font size value of type %T", raw)
	}
}
