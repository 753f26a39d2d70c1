package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/samfilter/samfilter"
	"v.io/x/lib/cmdline"
)

type filterFlags struct {
	supplementary *string
	greaterLen    *uint64
	smallerLen    *uint64
	qnameInput    *string
	qnameOutput   *string
	output        *string
	filter        *string
	stats         *string
}

func newCmdFilter(ctx context.Context) *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "bio-samfilter",
		Short: "Filter groups of SAM records sharing a QNAME",
		Long: `
bio-samfilter reads a SAM file whose records are grouped by QNAME, and writes
the header and the groups that pass every given filter. A group is written or
dropped as a whole. Length filters apply to the SEQ length of the first record
of a group, and both bounds are exclusive.

Inputs named *.gz, *.zst or *.bz2 are uncompressed. Use "-" to read stdin.
Outputs whose path ends in ".gz" are gzip compressed.
`,
		ArgsName: "<SAM file>",
	}
	flags := filterFlags{
		supplementary: cmd.Flags.String("supplementary", "", "Select (sel) or delete (del) reads with supplementary alignments"),
		greaterLen:    cmd.Flags.Uint64("greater_len", 0, "Select reads with a length greater than this value"),
		smallerLen:    cmd.Flags.Uint64("smaller_len", math.MaxUint32, "Select reads with a length smaller than this value"),
		qnameInput:    cmd.Flags.String("qname_input", "", "Select reads whose QNAME is equal to one of the lines in this file"),
		qnameOutput:   cmd.Flags.String("qname_output", "", "Write the QNAME of every selected read to this file, one per line"),
		output:        cmd.Flags.String("o", "", "Output SAM file. By default, write to stdout"),
		filter:        cmd.Flags.String("filter", "", samfilter.ExprHelp),
		stats:         cmd.Flags.String("stats", "", "Write filter statistics as TSV to this file"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return env.UsageErrorf("bio-samfilter takes one SAM file argument, but got %v", argv)
		}
		opts, err := flags.opts()
		if err != nil {
			return err
		}
		return filter(ctx, env, flags, opts, argv[0])
	})
	return cmd
}

// opts builds samfilter.Opts from the flags, except for the allow-list.
func (f filterFlags) opts() (samfilter.Opts, error) {
	opts := samfilter.DefaultOpts
	var err error
	if opts.Supplementary, err = samfilter.ParseSupplementaryMode(*f.supplementary); err != nil {
		return opts, err
	}
	if *f.greaterLen > math.MaxUint32 {
		return opts, errors.E(errors.Invalid, fmt.Sprintf("greater_len: %d is out of range", *f.greaterLen))
	}
	if *f.smallerLen > math.MaxUint32 {
		return opts, errors.E(errors.Invalid, fmt.Sprintf("smaller_len: %d is out of range", *f.smallerLen))
	}
	opts.MinLen = uint32(*f.greaterLen)
	opts.MaxLen = uint32(*f.smallerLen)
	opts.Expr = *f.filter
	return opts, nil
}

func filter(ctx context.Context, env *cmdline.Env, flags filterFlags, opts samfilter.Opts, inPath string) (err error) {
	if *flags.qnameInput != "" {
		if opts.AllowList, err = samfilter.LoadAllowList(ctx, *flags.qnameInput); err != nil {
			return err
		}
		log.Debug.Printf("%s: %d QNAMEs", *flags.qnameInput, len(opts.AllowList))
	}
	in, err := openInput(ctx, inPath, env.Stdin)
	if err != nil {
		return err
	}
	defer func() {
		if e := in.close(); e != nil && err == nil {
			err = e
		}
	}()
	out, err := createOutput(ctx, *flags.output, env.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.close(); e != nil && err == nil {
			err = e
		}
	}()
	var qnames *output
	if *flags.qnameOutput != "" {
		if qnames, err = createOutput(ctx, *flags.qnameOutput, nil); err != nil {
			return err
		}
		defer func() {
			if e := qnames.close(); e != nil && err == nil {
				err = e
			}
		}()
	}

	var stats samfilter.Stats
	if qnames != nil {
		stats, err = samfilter.Filter(ctx, in, out, qnames, opts)
	} else {
		stats, err = samfilter.Filter(ctx, in, out, nil, opts)
	}
	if err != nil {
		return errors.E(err, inPath)
	}
	log.Printf("%s: %v", inPath, &stats)
	if *flags.stats != "" {
		return writeStats(ctx, *flags.stats, &stats)
	}
	return nil
}

func writeStats(ctx context.Context, path string, stats *samfilter.Stats) error {
	out, err := createOutput(ctx, path, nil)
	if err != nil {
		return err
	}
	if err := stats.WriteTSV(out); err != nil {
		out.close() // nolint: errcheck
		return errors.E(err, "write", path)
	}
	return out.close()
}

// Run runs bio-samfilter with the command line arguments of the process and
// exits.
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdFilter(vcontext.Background()))
}
