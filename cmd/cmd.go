package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/akamensky/argparse"
	"github.com/fatih/color"

	"github.com/nsweep/NSweep-core/aggregate"
	"github.com/nsweep/NSweep-core/config"
	"github.com/nsweep/NSweep-core/export"
	"github.com/nsweep/NSweep-core/printer"
	"github.com/nsweep/NSweep-core/probe"
	"github.com/nsweep/NSweep-core/target"
)

func Excute() {
	parser := argparse.NewParser("nsweep", "Concurrent reachability and latency sweeper for address lists")

	mode := parser.Selector("M", "mode", []string{"tcp", "udp", "ping"}, &argparse.Options{Required: true,
		Help: "Probe method: tcp (connect timing), udp (datagram round-trip), ping (ICMP echo)"})
	port := parser.Int("p", "port", &argparse.Options{Help: "Destination port, required for tcp/udp modes"})
	topN := parser.Int("", "top", &argparse.Options{Help: "Keep only the N lowest-latency results (default: all)"})
	output := parser.String("o", "output", &argparse.Options{Help: "CSV path for ranked successful results"})
	failedOut := parser.String("", "failed", &argparse.Options{Help: "CSV path for failed results"})
	jsonOut := parser.String("j", "json", &argparse.Options{Help: "JSON path for ranked successful results"})
	minMS := parser.Float("", "min", &argparse.Options{Default: -1.0, Help: "Keep only latencies >= this many milliseconds"})
	maxMS := parser.Float("", "max", &argparse.Options{Default: -1.0, Help: "Keep only latencies <= this many milliseconds"})
	ipv6Limit := parser.Int("", "ipv6-limit", &argparse.Options{Default: -1,
		Help: "Sample cap per IPv6 range, 0 means unlimited (default 10)"})
	file := parser.String("f", "file", &argparse.Options{Help: "Target list file, one address/range/name per line (default ip.txt)"})
	workers := parser.Int("w", "workers", &argparse.Options{Help: "Concurrent probe workers (default 50)"})
	timeoutMS := parser.Int("t", "timeout", &argparse.Options{Help: "Per-probe timeout in milliseconds (default 1500)"})
	deadlineS := parser.Int("", "deadline", &argparse.Options{Help: "Whole-run deadline in seconds; pending probes resolve to cancelled"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Emit per-task diagnostics"})
	ver := parser.Flag("V", "version", &argparse.Options{Help: "Print version info and exit"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(2)
	}
	if *ver {
		printer.Version()
		os.Exit(0)
	}

	config.Init()

	method := probe.Method(*mode)
	if !method.Valid() {
		fatal("unsupported probe mode %q", *mode)
	}
	if method != probe.ICMPProbe && (*port <= 0 || *port > 65535) {
		fatal("mode %s requires --port in range 1-65535", method)
	}

	targetFile := *file
	if targetFile == "" {
		targetFile = config.TargetFile()
	}
	poolSize := *workers
	if poolSize <= 0 {
		poolSize = config.Workers()
	}
	probeTimeout := config.ProbeTimeout()
	if *timeoutMS > 0 {
		probeTimeout = time.Duration(*timeoutMS) * time.Millisecond
	}
	sampleCap := *ipv6Limit
	if sampleCap < 0 {
		sampleCap = config.IPv6SampleCap()
	}

	lines, err := readTargetLines(targetFile)
	if err != nil {
		fatal("cannot read target list %s: %v", targetFile, err)
	}
	specs := target.Parse(lines)
	if len(specs) == 0 {
		fatal("no targets parsed from %s", targetFile)
	}

	for _, path := range []string{*output, *failedOut, *jsonOut} {
		if err := export.Precheck(path); err != nil {
			fatal("output path not writable: %v", err)
		}
	}

	printer.Version()
	if method == probe.ICMPProbe && !probe.HasRawSocketPrivilege() {
		fmt.Fprintln(color.Output, color.YellowString(
			"running without CAP_NET_RAW; ping probes may report no_privilege unless unprivileged ICMP is enabled"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *deadlineS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*deadlineS)*time.Second)
		defer cancel()
	}

	tasks, unresolved := target.Resolve(ctx, specs, target.Options{
		Method:        method,
		Port:          *port,
		Timeout:       probeTimeout,
		IPv6SampleCap: sampleCap,
		DNSTimeout:    config.DNSTimeout(),
	})
	if len(tasks) == 0 && len(unresolved) == 0 {
		fatal("no probe targets after expansion")
	}

	agg := aggregate.New()
	for _, r := range unresolved {
		agg.Ingest(r)
		if *verbose {
			fmt.Fprintf(os.Stderr, "resolution failed: %s (%s)\n", r.Address, r.Message)
		}
	}

	printer.SweepNav(method, len(tasks), poolSize)

	pool := probe.NewPool(poolSize)
	pool.Verbose = *verbose
	pool.RunAll(ctx, tasks, agg)

	agg.FilterByLatency(*minMS, *maxMS)
	ranked := agg.TopN(*topN)
	failures := agg.Failures()

	if *output != "" {
		if err := export.WriteCSV(*output, ranked); err != nil {
			fatal("writing %s: %v", *output, err)
		}
	}
	if *failedOut != "" {
		if err := export.WriteCSV(*failedOut, failures); err != nil {
			fatal("writing %s: %v", *failedOut, err)
		}
	}
	if *jsonOut != "" {
		if err := export.WriteJSON(*jsonOut, ranked); err != nil {
			fatal("writing %s: %v", *jsonOut, err)
		}
	}

	printer.ResultTable(ranked)
	if *verbose && len(failures) > 0 {
		printer.FailureTable(failures)
	}
	printer.Summary(len(agg.Successes()), len(agg.FilteredOut()), len(failures))
}

// readTargetLines loads the raw input file. Parsing proper (comments, blanks,
// dedup) belongs to target.Parse.
func readTargetLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

// fatal reports a startup-time condition that makes the whole run meaningless
// and exits nonzero. Per-target failures never come through here.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nsweep: "+format+"\n", args...)
	os.Exit(2)
}
