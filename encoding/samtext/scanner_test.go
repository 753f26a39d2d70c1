package samtext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const samData = `@HD	VN:1.3	SO:queryname
@SQ	SN:chr1	LN:10000
read1	0	chr1	123	60	10M	=	456	20	ACGTACGTAC	ABCDEFGHIJ	RG:Z:NA12878
read1	2048	chr1	789	60	5M	=	456	20	ACGTA	ABCDE
read2	16	chr1	111	60	3M	*	0	0	ACG	ABC
`

func scanAll(t *testing.T, s string) ([]Line, error) {
	sc := NewScanner(strings.NewReader(s))
	var (
		lines []Line
		l     Line
	)
	for sc.Scan(&l) {
		lines = append(lines, l)
	}
	return lines, sc.Err()
}

func TestScan(t *testing.T) {
	lines, err := scanAll(t, samData)
	assert.NoError(t, err)
	assert.EQ(t, len(lines), 5)

	expect.True(t, lines[0].Header)
	expect.EQ(t, lines[0].Text, "@HD\tVN:1.3\tSO:queryname")
	expect.True(t, lines[1].Header)

	expect.False(t, lines[2].Header)
	expect.EQ(t, lines[2].Name, "read1")
	expect.EQ(t, lines[2].Flags, sam.Flags(0))
	expect.EQ(t, lines[2].SeqLen, uint32(10))

	expect.EQ(t, lines[3].Name, "read1")
	expect.True(t, lines[3].Flags&sam.Supplementary != 0)
	expect.EQ(t, lines[3].SeqLen, uint32(5))

	expect.EQ(t, lines[4].Name, "read2")
	expect.EQ(t, lines[4].Flags, sam.Reverse)
	expect.EQ(t, lines[4].SeqLen, uint32(3))
	expect.EQ(t, lines[4].Text, "read2\t16\tchr1\t111\t60\t3M\t*\t0\t0\tACG\tABC")
}

func TestParse(t *testing.T) {
	tests := []struct {
		text   string
		err    error
		name   string
		flags  sam.Flags
		seqLen uint32
	}{
		{"r\t0\t*\t0\t0\t*\t*\t0\t0\tACGT", nil, "r", 0, 4},
		{"r\t65535\t*\t0\t0\t*\t*\t0\t0\t", nil, "r", 0xffff, 0},
		{"\t4\t*\t0\t0\t*\t*\t0\t0\tAC\tII", nil, "", sam.Unmapped, 2},
		{"r\t0\t*\t0\t0\t*\t*\t0\t0", ErrShort, "", 0, 0},
		{"", ErrShort, "", 0, 0},
		{"r\tx\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
		{"r\t65536\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
		{"r\t-1\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
		{"r\t+2048\t*\t0\t0\t*\t*\t0\t0\tACGT", nil, "r", sam.Supplementary, 4},
		{"r\t+\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
		{"r\t++1\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
		{"r\t\t*\t0\t0\t*\t*\t0\t0\tACGT", ErrFlag, "", 0, 0},
	}
	for _, test := range tests {
		l, err := Parse(test.text)
		expect.EQ(t, err, test.err, "text: %q", test.text)
		if test.err != nil {
			continue
		}
		expect.False(t, l.Header)
		expect.EQ(t, l.Name, test.name)
		expect.EQ(t, l.Flags, test.flags)
		expect.EQ(t, l.SeqLen, test.seqLen)
		expect.EQ(t, l.Text, test.text)
	}
}

func TestParseHeader(t *testing.T) {
	// Headers are not required to have any particular shape.
	for _, text := range []string{"@", "@CO\tfree text", "@PG"} {
		l, err := Parse(text)
		assert.NoError(t, err)
		expect.True(t, l.Header)
		expect.EQ(t, l.Text, text)
	}
}

func TestScanErrors(t *testing.T) {
	_, err := scanAll(t, "@HD\tVN:1.3\nread1\t0\tchr1\n")
	expect.True(t, IsFormatError(err))
	expect.HasSubstr(t, err.Error(), "line 2")

	_, err = scanAll(t, "read1\tabc\t*\t0\t0\t*\t*\t0\t0\tACGT\n")
	expect.True(t, IsFormatError(err))
	expect.HasSubstr(t, err.Error(), "line 1")

	expect.False(t, IsFormatError(errors.New("disk on fire")))
}

func TestScanCRLF(t *testing.T) {
	lines, err := scanAll(t, "@HD\tVN:1.3\r\nr\t0\t*\t0\t0\t*\t*\t0\t0\tACGT\r\n")
	assert.NoError(t, err)
	assert.EQ(t, len(lines), 2)
	expect.EQ(t, lines[0].Text, "@HD\tVN:1.3")
	expect.EQ(t, lines[1].SeqLen, uint32(4))
}

func TestWriter(t *testing.T) {
	var (
		s   = NewScanner(strings.NewReader(samData))
		b   = new(bytes.Buffer)
		w   = NewWriter(b)
		l   Line
		err error
	)
	for s.Scan(&l) {
		if err = w.Write(l.Text); err != nil {
			t.Fatal(err)
		}
	}
	assert.NoError(t, s.Err())
	assert.NoError(t, w.Flush())
	if got, want := b.String(), samData; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	assert.NoError(t, w.Write("buffered"))
	err := w.Flush()
	assert.NotNil(t, err)
	expect.EQ(t, w.Write("more"), err)
}
