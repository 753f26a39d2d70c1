package samfilter

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestStatsTSV(t *testing.T) {
	var s Stats
	s.Headers = 2
	s.Records = 9
	for _, r := range []Reason{Accepted, Accepted, RejectAllowList, RejectMinLen, RejectMinLen, RejectExpr} {
		s.add(r)
	}
	expect.EQ(t, s.Groups, int64(6))
	expect.EQ(t, s.Accepted(), int64(2))
	expect.EQ(t, s.String(), "2 headers, 9 records in 6 groups, 2 groups accepted")

	var buf bytes.Buffer
	assert.NoError(t, s.WriteTSV(&buf))
	expect.EQ(t, buf.String(), `COUNTER	VALUE
headers	2
records	9
groups	6
accepted	2
rejected_allow_list	1
rejected_supplementary	0
rejected_greater_len	2
rejected_smaller_len	0
rejected_filter	1
`)
}
