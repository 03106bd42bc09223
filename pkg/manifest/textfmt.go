// pkg/manifest/textfmt.go
package manifest

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseText decodes the quick text manifest format:
//
//	# comment
//	- package_name
//	type : cmake
//	src : https://url/to/some.tar.bz2
//	options :
//	    CMAKE_OPTION_ONE ON
//	    CMAKE_OPTION_TWO OFF
//
// An entry starts with a dash and the package name. Attributes are
// "key : value" lines; leaving the value blank and following with indented
// lines makes a list attribute.
func ParseText(data []byte) ([]PackageSpec, error) {
	p := &textParser{lines: strings.Split(string(data), "\n"), lineNo: 1}
	raw, err := p.parse()
	if err != nil {
		return nil, err
	}
	return fromRawEntries(raw)
}

type textParser struct {
	lines   []string
	lineNo  int
	all     []map[string]interface{}
	current map[string]interface{}
}

func (p *textParser) hasLine() bool {
	return len(p.lines) > 0
}

func (p *textParser) currLine() string {
	return p.lines[0]
}

func (p *textParser) takeLine() string {
	line := p.lines[0]
	p.lines = p.lines[1:]
	p.lineNo++
	return line
}

func (p *textParser) flush() {
	if len(p.current) > 0 {
		p.all = append(p.all, p.current)
	}
	p.current = nil
}

func (p *textParser) parse() ([]map[string]interface{}, error) {
	for p.hasLine() {
		if err := p.handleLine(); err != nil {
			return nil, err
		}
	}
	p.flush()
	return p.all, nil
}

func (p *textParser) handleLine() error {
	line := p.currLine()

	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		p.takeLine()
		return nil
	}

	if strings.HasPrefix(line, "-") {
		p.flush()
		parts := strings.Fields(line[1:])
		if len(parts) < 1 {
			return &Error{Line: p.lineNo, Msg: "entry header without a package name"}
		}
		p.current = map[string]interface{}{"name": parts[0]}
		p.takeLine()
		return nil
	}

	return p.handleAttrib()
}

func (p *textParser) handleAttrib() error {
	lineNo := p.lineNo
	line := p.takeLine()

	if p.current == nil {
		return &Error{Line: lineNo, Msg: fmt.Sprintf("attribute before any entry header: %q", line)}
	}

	key, value, found := strings.Cut(line, ":")
	if !found {
		return &Error{Line: lineNo, Msg: fmt.Sprintf("malformed attribute line: %q", line)}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return &Error{Line: lineNo, Msg: fmt.Sprintf("malformed attribute line: %q", line)}
	}

	isList := value == ""
	var items []string
	if !isList {
		items = append(items, value)
	}

	// Indented lines continue the attribute as list content.
	for p.hasLine() {
		next := p.currLine()
		if next == "" || !unicode.IsSpace(rune(next[0])) {
			break
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		items = append(items, strings.TrimSpace(next))
		p.takeLine()
	}

	if isList {
		p.current[key] = items
		return nil
	}
	if len(items) == 1 {
		p.current[key] = items[0]
		return nil
	}
	p.current[key] = items
	return nil
}
