package report

import (
	"fmt"
	"strconv"
	"strings"
)

// XPathToSelector converts an absolute, element-only XPath such as
// /html/body/div[7]/div/table into the equivalent CSS child-combinator chain.
// Positional predicates map to :nth-of-type, which counts same-name siblings
// exactly like an XPath index does.
func XPathToSelector(xpath string) (string, error) {
	xpath = strings.TrimSpace(xpath)
	if !strings.HasPrefix(xpath, "/") || strings.HasPrefix(xpath, "//") {
		return "", fmt.Errorf("xpath must be absolute: %q", xpath)
	}

	steps := strings.Split(strings.TrimPrefix(xpath, "/"), "/")
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		part, err := convertStep(step)
		if err != nil {
			return "", fmt.Errorf("xpath %q: %w", xpath, err)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " > "), nil
}

func convertStep(step string) (string, error) {
	if step == "" {
		return "", fmt.Errorf("empty step")
	}

	name := step
	index := ""
	if open := strings.IndexByte(step, '['); open >= 0 {
		if !strings.HasSuffix(step, "]") {
			return "", fmt.Errorf("unterminated predicate in %q", step)
		}
		name = step[:open]
		index = step[open+1 : len(step)-1]
	}

	if !isElementName(name) {
		return "", fmt.Errorf("unsupported step %q", step)
	}

	if index == "" {
		return name, nil
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 1 {
		return "", fmt.Errorf("unsupported predicate %q", step)
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", name, n), nil
}

func isElementName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
