package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/dropin/pkg/errors"
)

// UnitParser reads and writes unit-file syntax:
//
//	# comment
//	[Section]
//	Key=Value
//	Key=continued \
//	    on the next line
//
// A key repeated within a section becomes a list. It implements
// koanf.Parser.
type UnitParser struct{}

// Parser returns a unit-file parser
func Parser() *UnitParser {
	return &UnitParser{}
}

// Unmarshal parses unit-file bytes into section maps
func (p *UnitParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	var section map[string]interface{}
	var sectionName string

	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	var pending strings.Builder
	pendingStart := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if pending.Len() > 0 {
			// comments are dropped inside a continuation
			if isComment(line) {
				continue
			}
		} else {
			if line == "" || isComment(line) {
				continue
			}
			pendingStart = lineNo
		}

		if strings.HasSuffix(line, "\\") {
			pending.WriteString(strings.TrimSpace(strings.TrimSuffix(line, "\\")))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		logical := strings.TrimSpace(pending.String())
		pending.Reset()

		if strings.HasPrefix(logical, "[") {
			if !strings.HasSuffix(logical, "]") || len(logical) < 3 {
				return nil, parseError(pendingStart, "invalid section header %q", logical)
			}
			sectionName = strings.TrimSpace(logical[1 : len(logical)-1])
			if existing, ok := out[sectionName].(map[string]interface{}); ok {
				section = existing
			} else {
				section = make(map[string]interface{})
				out[sectionName] = section
			}
			continue
		}

		key, value, ok := strings.Cut(logical, "=")
		if !ok {
			return nil, parseError(pendingStart, "missing '=' in %q", logical)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, parseError(pendingStart, "empty key")
		}
		if section == nil {
			return nil, parseError(pendingStart, "assignment to %s outside of a section", key)
		}
		addValue(section, key, strings.TrimSpace(value))
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to read unit file")
	}
	if pending.Len() > 0 {
		logical := strings.TrimSpace(pending.String())
		key, value, ok := strings.Cut(logical, "=")
		if !ok || section == nil || strings.TrimSpace(key) == "" {
			return nil, parseError(pendingStart, "unterminated continuation")
		}
		addValue(section, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return out, nil
}

// Marshal writes section maps back as unit-file syntax. Sections and keys
// are sorted; lists are written as repeated assignments.
func (p *UnitParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer

	sections := make([]string, 0, len(m))
	for name, v := range m {
		if _, ok := v.(map[string]interface{}); !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "value %s is outside of a section", name)
		}
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for i, name := range sections {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "[%s]\n", name)
		writeKeys(&buf, "", m[name].(map[string]interface{}))
	}
	return buf.Bytes(), nil
}

func writeKeys(buf *bytes.Buffer, prefix string, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			writeKeys(buf, prefix+k+".", v)
		case []interface{}:
			for _, item := range v {
				fmt.Fprintf(buf, "%s%s=%v\n", prefix, k, item)
			}
		case []string:
			for _, item := range v {
				fmt.Fprintf(buf, "%s%s=%s\n", prefix, k, item)
			}
		default:
			fmt.Fprintf(buf, "%s%s=%v\n", prefix, k, v)
		}
	}
}

// addValue records an assignment, turning repeats into a list. The raw
// sequence is kept, empty values included; the merge applies resets.
func addValue(section map[string]interface{}, key, value string) {
	existing, ok := section[key]
	if !ok {
		section[key] = value
		return
	}
	if list, ok := existing.([]interface{}); ok {
		section[key] = append(list, value)
		return
	}
	section[key] = []interface{}{existing, value}
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";")
}

func parseError(line int, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ErrConfigParse, "line %d: %s", line, fmt.Sprintf(format, args...)).
		WithDetail("line", line)
}
