package ui

import (
	"fmt"
	"strings"
)

// ParseCSS parses a small CSS subset: selectors .class, #id or a node type, comma-separated
// selector lists, and blocks of "key: value;". No combinators, no @rules. Later rules override
// earlier ones. An unterminated block is an error.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	s := stripCSSComments(content)
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return sheet, nil
		}
		open := strings.IndexByte(s, '{')
		if open < 0 {
			return nil, fmt.Errorf("css: expected '{' after %q", truncate(s, 20))
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("css: unterminated block for %q", strings.TrimSpace(s[:open]))
		}
		end += open
		props := parseDeclarations(s[open+1 : end])
		for _, sel := range strings.Split(s[:open], ",") {
			sel = strings.TrimSpace(sel)
			if validSelector(sel) {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
			}
		}
		s = s[end+1:]
	}
}

func validSelector(sel string) bool {
	if sel == "" || strings.ContainsAny(sel, " >+~:[") {
		return false
	}
	if sel[0] == '.' || sel[0] == '#' {
		return len(sel) > 1
	}
	return true
}

func stripCSSComments(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		j := strings.Index(s[i+2:], "*/")
		if j < 0 {
			return b.String()
		}
		s = s[i+2+j+2:]
	}
}

func parseDeclarations(body string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(body, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			props[k] = strings.TrimSpace(v)
		}
	}
	return props
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
