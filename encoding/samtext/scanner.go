package samtext

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a record line has fewer than MinFields
	// tab-separated fields.
	ErrShort = errors.New("too few fields in SAM record")
	// ErrFlag is returned when the FLAG field of a record is not an
	// unsigned 16-bit decimal integer.
	ErrFlag = errors.New("invalid FLAG field in SAM record")
)

// MinFields is the number of mandatory fields a record line must carry.
const MinFields = 10

const (
	nameField = 0
	flagField = 1
	seqField  = 9
)

// MaxLineSize bounds the length of a single line accepted by Scanner.
const MaxLineSize = 256 << 20

// A Line is one classified line of SAM text. For header lines only Text
// and Header are set.
type Line struct {
	// Text is the raw line without its terminating newline.
	Text string
	// Header is true for lines whose first field starts with '@'.
	Header bool
	// Name is the QNAME field.
	Name string
	// Flags is the FLAG field.
	Flags sam.Flags
	// SeqLen is the byte length of the SEQ field.
	SeqLen uint32
}

// Parse classifies a single line of SAM text. It performs no validation
// beyond counting fields and parsing FLAG.
func Parse(text string) (Line, error) {
	line := Line{Text: text}
	if len(text) > 0 && text[0] == '@' {
		line.Header = true
		return line, nil
	}
	var (
		nfield, start int
		flag          string
	)
	for i := 0; i <= len(text) && nfield < MinFields; i++ {
		if i < len(text) && text[i] != '\t' {
			continue
		}
		switch nfield {
		case nameField:
			line.Name = text[start:i]
		case flagField:
			flag = text[start:i]
		case seqField:
			line.SeqLen = uint32(i - start)
		}
		nfield++
		start = i + 1
	}
	if nfield < MinFields {
		return Line{}, ErrShort
	}
	// A single leading '+' is allowed, as in "+16".
	v, err := strconv.ParseUint(strings.TrimPrefix(flag, "+"), 10, 16)
	if err != nil {
		return Line{}, ErrFlag
	}
	line.Flags = sam.Flags(v)
	return line, nil
}

// IsFormatError reports whether err was caused by malformed SAM text, as
// opposed to a failure of the underlying reader.
func IsFormatError(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrShort || cause == ErrFlag
}

// Scanner reads SAM text one line at a time and classifies each line.
// Scanners are not threadsafe.
type Scanner struct {
	b   *bufio.Scanner
	n   int
	err error
}

// NewScanner constructs a Scanner that reads SAM text from r. Trailing
// carriage returns are stripped along with the newline.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 64<<10), MaxLineSize)
	return &Scanner{b: b}
}

// Scan classifies the next line into the provided line. Scan returns a
// boolean indicating whether the scan succeeded. Once Scan returns false,
// it never returns true again; the user should then check Err to tell a
// malformed line or read failure apart from the end of the stream.
func (s *Scanner) Scan(line *Line) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = io.EOF
		}
		return false
	}
	s.n++
	l, err := Parse(s.b.Text())
	if err != nil {
		s.err = errors.Wrapf(err, "line %d", s.n)
		return false
	}
	*line = l
	return true
}

// LineNumber returns the 1-based number of the line last scanned.
func (s *Scanner) LineNumber() int {
	return s.n
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
