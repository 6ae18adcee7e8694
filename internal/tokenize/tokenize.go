// Package tokenize is the out-of-scope string-splitting collaborator named
// in spec.md §1 ("a trivial utility"). It is used only by cmd/simhashdemo:
// the index, fingerprint, and mixer packages never import it.
package tokenize

import "strings"

// WhiteChars are the default delimiters Split uses when delims is empty,
// ported from original_source/src/string_handler.cpp's WHITE_CHARS.
const WhiteChars = " \t\n\r\f\v"

// Split splits str on any character in delims (defaulting to WhiteChars when
// delims is empty), the way the original StringHandler::SplitString does:
// empty substrings between consecutive delimiters are kept in the result,
// not dropped. An empty str yields an empty (nil) slice rather than a
// single empty-string element.
func Split(str string, delims string) []string {
	if str == "" {
		return nil
	}
	realDelims := delims
	if realDelims == "" {
		realDelims = WhiteChars
	}

	var out []string
	i := 0
	for i <= len(str) {
		j := strings.IndexAny(str[i:], realDelims)
		if j < 0 {
			out = append(out, str[i:])
			break
		}
		j += i
		out = append(out, str[i:j])
		i = j + 1
	}
	return out
}
