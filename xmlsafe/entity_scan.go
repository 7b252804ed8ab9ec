package xmlsafe

import (
	"bufio"
	"regexp"

	"ddexcore/ddexerr"
)

// doctypeScanWindow bounds how much of the input we inspect for a
// DOCTYPE/ENTITY declaration before full parsing begins — the reader
// must not consume more of the stream than necessary (spec.md §4.2's
// "must not consume the reader beyond what is needed" applies equally
// here: we only Peek, never Read, this prefix).
const doctypeScanWindow = 64 * 1024

var (
	doctypeExternalPattern = regexp.MustCompile(`(?s)<!DOCTYPE[^>\[]*\b(SYSTEM|PUBLIC)\b`)
	doctypeBlockPattern    = regexp.MustCompile(`(?s)<!DOCTYPE[^\[]*\[(.*?)\]`)
	entityDeclPattern      = regexp.MustCompile(`<!ENTITY\s+(%\s*)?([A-Za-z_][\w.-]*)\s+("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|SYSTEM\s+"[^"]*"|SYSTEM\s+'[^']*'|PUBLIC\s+"[^"]*"\s+"[^"]*")`)
)

// scanForUnsafeEntities inspects a bounded prefix of br for external
// entity declarations (rejected unconditionally) and sums the size of
// any internal entity declarations against the configured budget.
// br's read position is not advanced: Peek is used throughout.
func scanForUnsafeEntities(br *bufio.Reader, maxEntityBytes int64) *ddexerr.Error {
	prefix, _ := br.Peek(doctypeScanWindow)
	if len(prefix) == 0 {
		return nil
	}

	if doctypeExternalPattern.Match(prefix) {
		return ddexerr.NewSecurityViolation("external entity or external DOCTYPE subset is forbidden")
	}

	block := doctypeBlockPattern.FindSubmatch(prefix)
	if block == nil {
		return nil
	}

	var totalBytes int64
	for _, m := range entityDeclPattern.FindAllSubmatch(block[1], -1) {
		value := string(m[3])
		if len(value) >= 6 && (value[:6] == "SYSTEM" || value[:6] == "PUBLIC") {
			return ddexerr.NewSecurityViolation("external entity declaration is forbidden: " + string(m[2]))
		}
		totalBytes += int64(len(value))
		if totalBytes > maxEntityBytes {
			return ddexerr.NewSecurityViolation("internal entity expansion exceeds configured byte budget")
		}
	}
	return nil
}
