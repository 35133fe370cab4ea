// Package sqlparser splits SQL scripts into statements.
package sqlparser

import (
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
	"github.com/vippsas/sqlprime/sqlparser/internal/utils"
)

const (
	// DefaultTerminator ends a statement and is kept as part of it.
	DefaultTerminator = ';'
	// DefaultKeyword ends a statement when it stands alone before whitespace.
	// It is removed from the statement.
	DefaultKeyword = "GO"
)

// Scanner splits a SQL script into statements.
//
// The script is read exactly once, rune by rune. A statement ends at the
// terminator (`;`) or at the batch keyword (`GO`) followed by whitespace,
// except inside 'single quoted' or "double quoted" text and -- line or
// /* block */ comments. Comments are dropped from the emitted statements;
// quoted text is kept verbatim.
//
// Usage mirrors bufio.Scanner:
//
//	s := sqlparser.NewScanner(f)
//	for s.Next() {
//		fmt.Println(s.Statement())
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	r          *bufio.Reader
	terminator rune
	keyword    []byte

	state scanState
	prev  rune
	buf   bytes.Buffer // statement being accumulated

	line      int // current line (1-indexed)
	startLine int // line of the first non-blank rune in buf; 0 while buf is blank

	stmt     string
	stmtLine int
	done     bool
	err      error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTerminator sets the statement terminator. It must not be a quote
// or comment character.
func WithTerminator(r rune) Option {
	return func(s *Scanner) {
		s.terminator = r
	}
}

// WithKeyword sets the case-sensitive batch keyword. An empty keyword
// disables keyword detection.
func WithKeyword(keyword string) Option {
	return func(s *Scanner) {
		s.keyword = []byte(keyword)
	}
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		r:          bufio.NewReader(r),
		terminator: DefaultTerminator,
		keyword:    []byte(DefaultKeyword),
		line:       1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next advances to the next statement, which is then available through
// Statement. It returns false when the input is exhausted or a read error
// occurred; Err tells the two apart.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}
	for {
		r, _, err := s.r.ReadRune()
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
				return false
			}
			// the last statement does not need a terminator
			return s.emit()
		}
		emitted := s.step(r)
		if r == '\n' {
			s.line++
		}
		if emitted {
			return true
		}
	}
}

// Statement returns the most recent statement found by Next, trimmed of
// surrounding whitespace.
func (s *Scanner) Statement() string {
	return s.stmt
}

// Line returns the line on which the most recent statement starts.
func (s *Scanner) Line() int {
	return s.stmtLine
}

// Err returns the first non-EOF error returned by the underlying reader.
func (s *Scanner) Err() error {
	return s.err
}

// step feeds one rune through the rules and reports whether a statement
// was emitted. All rules see the state the rune arrived in.
func (s *Scanner) step(r rune) bool {
	outside := s.state == stateNormal
	ready := false
	closedComment := false

	switch {
	case r == '\'':
		if outside {
			s.state = stateSingleQuote
		} else if s.state == stateSingleQuote && s.prev != '\\' {
			s.state = stateNormal
		}
	case r == '"':
		if outside {
			s.state = stateDoubleQuote
		} else if s.state == stateDoubleQuote && s.prev != '\\' {
			s.state = stateNormal
		}
	case r == '-' && outside && s.prev == '-':
		s.state = stateLineComment
		s.unappend('-')
	case r == '\n' && s.state == stateLineComment:
		s.state = stateNormal
		closedComment = true
	case r == '*' && outside && s.prev == '/':
		s.state = stateBlockComment
		s.unappend('/')
	case r == '/' && s.state == stateBlockComment && s.prev == '*':
		s.state = stateNormal
		closedComment = true
	case r == s.terminator && outside:
		s.append(r)
		ready = true
	}

	if !ready && outside && unicode.IsSpace(r) && s.endsWithKeyword() {
		s.buf.Truncate(s.buf.Len() - len(s.keyword))
		ready = true
	}

	s.prev = r

	if ready {
		return s.emit()
	}
	if !closedComment && !s.state.inComment() {
		s.append(r)
	}
	return false
}

func (s *Scanner) append(r rune) {
	if s.startLine == 0 && !unicode.IsSpace(r) {
		s.startLine = s.line
	}
	s.buf.WriteRune(r)
}

// unappend removes the first half of a two-character comment marker,
// which was appended on the previous rune.
func (s *Scanner) unappend(r byte) {
	b := s.buf.Bytes()
	if len(b) == 0 || b[len(b)-1] != r {
		return
	}
	s.buf.Truncate(len(b) - 1)
	if len(bytes.TrimSpace(s.buf.Bytes())) == 0 {
		s.startLine = 0
	}
}

// endsWithKeyword reports whether the accumulated text ends with the
// keyword as a whole word. Only the tail of the buffer is inspected.
func (s *Scanner) endsWithKeyword() bool {
	b := s.buf.Bytes()
	if len(s.keyword) == 0 || !bytes.HasSuffix(b, s.keyword) {
		return false
	}
	before, size := utf8.DecodeLastRune(b[:len(b)-len(s.keyword)])
	if size == 0 {
		return true
	}
	return !xid.Continue(before)
}

// emit moves the accumulated text into the current statement. Blank text
// is dropped and emit reports false.
func (s *Scanner) emit() bool {
	text := strings.TrimSpace(s.buf.String())
	line := s.startLine
	s.buf.Reset()
	s.startLine = 0
	if text == "" {
		return false
	}
	s.stmt = text
	s.stmtLine = line
	utils.DPrint("statement at line %d: %q\n", line, text)
	return true
}

// Split reads all statements from r using the default delimiters.
func Split(r io.Reader, opts ...Option) ([]string, error) {
	var result []string
	s := NewScanner(r, opts...)
	for s.Next() {
		result = append(result, s.Statement())
	}
	return result, s.Err()
}

// SplitFile reads all statements from the named file in fsys, each with
// the position it starts at.
func SplitFile(fsys fs.FS, name string, opts ...Option) (result []PosString, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	s := NewScanner(f, opts...)
	for s.Next() {
		result = append(result, PosString{
			Pos:   Pos{File: FileRef(name), Line: s.Line()},
			Value: s.Statement(),
		})
	}
	return result, s.Err()
}
