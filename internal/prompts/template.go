package prompts

import "strings"

// Render substitutes named placeholders in template with the values from
// vars. A doubled brace ("{{" or "}}") is emitted as a single literal brace,
// so a template containing no placeholders round-trips unchanged — the
// property that makes composing JSON examples inside templates safe.
// A placeholder with no matching var is left in the output verbatim.
func Render(template string, vars map[string]string) string {
	var b strings.Builder
	n := len(template)
	for i := 0; i < n; {
		c := template[i]
		switch c {
		case '{':
			if i+1 < n && template[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			if j := strings.IndexByte(template[i:], '}'); j != -1 {
				name := template[i+1 : i+j]
				if v, ok := vars[name]; ok {
					b.WriteString(v)
				} else {
					b.WriteString(template[i : i+j+1])
				}
				i += j + 1
				continue
			}
			b.WriteString(template[i:])
			i = n
		case '}':
			if i+1 < n && template[i+1] == '}' {
				b.WriteByte('}')
				i += 2
				continue
			}
			b.WriteByte('}')
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}
