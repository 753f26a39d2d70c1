// bio-samfilter filters a QNAME-grouped SAM file by supplementary alignments,
// read length, and a list of QNAMEs.
//
// Usage: bio-samfilter [flags] <SAM file>
package main

import "github.com/grailbio/samfilter/cmd/bio-samfilter/cmd"

func main() {
	cmd.Run()
}
