package xmlsafe

import (
	"io"
	"unicode/utf8"

	"ddexcore/ddexerr"
)

// safeReader wraps a byte source, validating UTF-8 as bytes flow
// through and tracking byte offset / line / column for error
// locations. Invalid sequences surface as *ddexerr.Error (spec.md
// §4.1 "UTF-8").
type safeReader struct {
	src        io.Reader
	byteOffset int64
	line, col  int
	carry      []byte
	failure    *ddexerr.Error
}

func newSafeReader(src io.Reader) *safeReader {
	return &safeReader{src: src, line: 1, col: 1}
}

func (s *safeReader) Read(p []byte) (int, error) {
	if s.failure != nil {
		return 0, s.failure
	}
	n, err := s.src.Read(p)
	if n > 0 {
		buf := p[:n]
		check := buf
		if len(s.carry) > 0 {
			check = append(append([]byte{}, s.carry...), buf...)
		}
		valid := check
		for len(valid) > 0 {
			r, size := utf8.DecodeRune(valid)
			if r == utf8.RuneError && size <= 1 {
				if !utf8.FullRune(valid) && len(valid) < utf8.UTFMax {
					break // incomplete trailing rune: may complete on next Read
				}
				s.failure = ddexerr.NewInvalidUTF8(s.byteOffset + int64(len(check)-len(valid)))
				return n, s.failure
			}
			valid = valid[size:]
		}
		s.carry = append(s.carry[:0], valid...)

		for _, b := range buf {
			s.byteOffset++
			if b == '\n' {
				s.line++
				s.col = 1
			} else {
				s.col++
			}
		}
	}
	if err == io.EOF && len(s.carry) > 0 {
		s.failure = ddexerr.NewInvalidUTF8(s.byteOffset)
		return n, s.failure
	}
	return n, err
}

func (s *safeReader) location(path string) ddexerr.Location {
	return ddexerr.Location{Line: s.line, Column: s.col, ByteOffset: s.byteOffset, Path: path}
}
