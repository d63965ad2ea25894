package decode

import (
	"encoding/json"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/qbx2/declrest/packages/core/spec"
	"github.com/qbx2/declrest/packages/http"
)

// StepError reports a decode step or result hook that failed. The
// in-flight call aborts; nothing is recovered or retried.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return "declrest: decode " + e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs the built-in decode steps in their fixed order
// (read-raw, decode-text, regex-extract, parse-json), then the user
// hooks in declaration order. Enabling a step implicitly enables every
// step it depends on, regardless of declaration order.
type Pipeline struct {
	read     bool
	text     bool
	encoding string
	extract  bool
	pattern  string
	flags    string
	parse    bool
	hooks    []spec.Hook
}

func New(steps []spec.Step, hooks []spec.Hook) *Pipeline {
	p := &Pipeline{hooks: hooks}
	for _, step := range steps {
		switch step.Kind {
		case spec.StepRead:
			p.read = true
		case spec.StepText:
			p.text = true
			p.read = true
			if step.Encoding != "" {
				p.encoding = step.Encoding
			}
		case spec.StepExtract:
			p.extract = true
			p.text = true
			p.read = true
			p.pattern = step.Pattern
			p.flags = step.Flags
		case spec.StepJSON:
			p.parse = true
			p.text = true
			p.read = true
		}
	}
	return p
}

// Run passes the raw response through the enabled steps and hooks and
// returns the final value. With nothing enabled the response itself is
// returned.
func (p *Pipeline) Run(resp *http.Response) (any, error) {
	var value any = resp

	if p.read {
		value = resp.Body
	}

	if p.text {
		text, err := decodeText(resp.Body, p.encoding)
		if err != nil {
			return nil, &StepError{Step: "decode-text", Err: err}
		}
		value = text
	}

	if p.extract {
		extracted, err := findAll(p.pattern, p.flags, value)
		if err != nil {
			return nil, &StepError{Step: "regex-extract", Err: err}
		}
		value = extracted
	}

	if p.parse {
		parsed, err := parseJSON(value)
		if err != nil {
			return nil, &StepError{Step: "parse-json", Err: err}
		}
		value = parsed
	}

	for _, hook := range p.hooks {
		next, err := hook(value)
		if err != nil {
			return nil, &StepError{Step: "result-hook", Err: err}
		}
		value = next
	}

	return value, nil
}

func decodeText(body []byte, encoding string) (string, error) {
	switch encoding {
	case "", "utf-8", "utf8":
		if !utf8.Valid(body) {
			return "", fmt.Errorf("body is not valid UTF-8")
		}
		return string(body), nil
	case "us-ascii", "ascii":
		for i, b := range body {
			if b > 0x7f {
				return "", fmt.Errorf("non-ASCII byte 0x%02x at offset %d", b, i)
			}
		}
		return string(body), nil
	case "iso-8859-1", "latin-1":
		runes := make([]rune, len(body))
		for i, b := range body {
			runes[i] = rune(b)
		}
		return string(runes), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// findAll mirrors a findall over the decoded text: without capture
// groups it yields every match as []string; with one group, that
// group's text; with several, [][]string of the groups.
func findAll(pattern, flags string, value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("input is %T, not text", value)
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	switch re.NumSubexp() {
	case 0:
		matches := re.FindAllString(text, -1)
		if matches == nil {
			matches = []string{}
		}
		return matches, nil
	case 1:
		groups := re.FindAllStringSubmatch(text, -1)
		matches := make([]string, len(groups))
		for i, g := range groups {
			matches[i] = g[1]
		}
		return matches, nil
	default:
		groups := re.FindAllStringSubmatch(text, -1)
		matches := make([][]string, len(groups))
		for i, g := range groups {
			matches[i] = g[1:]
		}
		return matches, nil
	}
}

func parseJSON(value any) (any, error) {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("input is %T, not text", value)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
