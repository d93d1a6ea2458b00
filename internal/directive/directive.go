// Package directive parses the //logprobe:log and //logprobe:props comment
// mini-language that declares logging metadata on a bodyless method
// declaration — the Go stand-in for a source-language attribute on a
// partial method. A generator outside this repository's scope is assumed
// to synthesize the method body from the same directive; this package only
// reads it back out for analysis.
//
// Grammar, one directive per comment line:
//
//	//logprobe:log level=<Name> [id=<int>] [name=<string>] template=<quoted string>
//	//logprobe:props param=<name> [omitref] [skipnull] [transitive] [tagprovider=<FuncName>]
//
// level names match the target level enum's short constant names
// (Trace, Debug, Information, Warning, Error, Critical, None). id and name
// correspond to the two forms of event-id attribute argument; either,
// both, or neither may be present. A //logprobe:props line may appear once
// per LogProperties-marked parameter.
package directive

import (
	"go/ast"
	"strconv"
	"strings"
)

// Log is a parsed //logprobe:log directive.
type Log struct {
	Level    string
	ID       *int
	Name     *string
	Template string
}

// Props is a parsed //logprobe:props directive for one parameter.
type Props struct {
	Param             string
	OmitReferenceName bool
	SkipNullProps     bool
	Transitive        bool
	TagProvider       string
}

// Parse reads every //logprobe: line out of a comment group, in source
// order. ok is false when no //logprobe:log line is present — a method
// with only //logprobe:props lines and no log line is not directive-
// declared.
func Parse(doc *ast.CommentGroup) (log Log, props []Props, ok bool) {
	if doc == nil {
		return Log{}, nil, false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		switch {
		case strings.HasPrefix(text, "logprobe:log "):
			if l, good := parseLog(strings.TrimPrefix(text, "logprobe:log ")); good {
				log = l
				ok = true
			}
		case strings.HasPrefix(text, "logprobe:props "):
			if p, good := parseProps(strings.TrimPrefix(text, "logprobe:props ")); good {
				props = append(props, p)
			}
		}
	}
	return log, props, ok
}

func parseLog(rest string) (Log, bool) {
	fields := tokenize(rest)
	l := Log{}
	for k, v := range fields {
		switch k {
		case "level":
			l.Level = v
		case "id":
			n, err := strconv.Atoi(v)
			if err != nil {
				return Log{}, false
			}
			l.ID = &n
		case "name":
			name := v
			l.Name = &name
		case "template":
			l.Template = v
		}
	}
	if l.Level == "" || l.Template == "" {
		return Log{}, false
	}
	return l, true
}

func parseProps(rest string) (Props, bool) {
	fields := tokenize(rest)
	p := Props{}
	for k, v := range fields {
		switch k {
		case "param":
			p.Param = v
		case "omitref":
			p.OmitReferenceName = true
		case "skipnull":
			p.SkipNullProps = true
		case "transitive":
			p.Transitive = true
		case "tagprovider":
			p.TagProvider = v
		}
	}
	if p.Param == "" {
		return Props{}, false
	}
	return p, true
}

// tokenize splits a directive's remainder into key=value tokens, honoring
// double-quoted values that may contain spaces. A bare word (no '=')
// becomes a key with an empty value, used for the boolean props flags.
func tokenize(s string) map[string]string {
	out := make(map[string]string)
	i, n := 0, len(s)
	for i < n {
		for i < n && s[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && s[i] != '=' && s[i] != ' ' {
			i++
		}
		key := s[start:i]
		if key == "" {
			break
		}
		if i < n && s[i] == '=' {
			i++
			if i < n && s[i] == '"' {
				i++
				vstart := i
				for i < n && s[i] != '"' {
					i++
				}
				out[key] = s[vstart:i]
				if i < n {
					i++ // closing quote
				}
			} else {
				vstart := i
				for i < n && s[i] != ' ' {
					i++
				}
				out[key] = s[vstart:i]
			}
		} else {
			out[key] = ""
		}
	}
	return out
}

// FuncDoc returns the doc comment group belonging to fn, or nil.
func FuncDoc(fn *ast.FuncDecl) *ast.CommentGroup {
	return fn.Doc
}
