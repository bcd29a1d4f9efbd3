package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fbprep/db"
	elog "github.com/fbprep/errlog"
	"github.com/fbprep/es"
	"github.com/fbprep/mysql"
	param "github.com/fbprep/param"
	"github.com/fbprep/rdf/pipeline"
	"github.com/fbprep/rdf/reader"
	"github.com/fbprep/rdf/schema"
	"github.com/fbprep/run"
	"github.com/fbprep/stats"
	"github.com/fbprep/stats/admin"
	slog "github.com/fbprep/syslog"
)

const logid = param.Logid

func syslog(s string) {
	slog.Log(logid, s)
}

var (
	inputFile  = flag.String("i", param.InputFile, "Input dump, gzip or plain text")
	schemaFile = flag.String("schema", param.SchemaFile, "Schema file of language tagged predicates (appended to)")
	outFile    = flag.String("o", "", "Kept output file [default stdout]")
	debug      = flag.String("debug", "", `Enable logging by component "c1,c2,c3" or switch on complete logging "all"`)
	environ    = flag.String("env", "dev", "Environment [ dev: Development] prd: production")
	runlog     = flag.String("runlog", "", `Run registry ["": system log only, dynamodb, mysql]`)
	region     = flag.String("region", param.Region, "AWS region for DynamoDB and CloudWatch logs")
	dsn        = flag.String("dsn", os.Getenv(param.MySQLEnv), "MySQL DSN for the mysql run registry [default $"+param.MySQLEnv+"]")
	esAddr     = flag.String("es", "", "Elasticsearch address, enables the schema mirror e.g. http://localhost:9200")
	esidx      = flag.String("idx", param.ESindex, "Elasticsearch index name")
	showStats  = flag.Int("stats", 0, `Show system stats [1: enable 0: disable (default)`)
)

// exit status
const (
	exitOK     = 0
	exitError  = 1
	exitSignal = 2
)

func main() {
	os.Exit(prep())
}

func prep() int {

	flag.Parse()

	args := []string{
		fmt.Sprintf("Argument: input: %s", *inputFile),
		fmt.Sprintf("Argument: schema: %s", *schemaFile),
		fmt.Sprintf("Argument: output: %s", *outFile),
		fmt.Sprintf("Argument: debug: %s", *debug),
		fmt.Sprintf("Argument: env: %s", *environ),
		fmt.Sprintf("Argument: runlog: %s", *runlog),
		fmt.Sprintf("Argument: region: %s", *region),
		fmt.Sprintf("Argument: es: %s", *esAddr),
		fmt.Sprintf("Argument: idx: %s", *esidx),
		fmt.Sprintf("Argument: stats: %d", *showStats),
	}
	// stdout carries the kept output
	for _, a := range args {
		fmt.Fprintln(os.Stderr, a)
	}

	if len(*debug) > 0 {
		if strings.ToUpper(*debug) == "ALL" {
			param.DebugOn = true
		} else {
			for _, v := range strings.Split(*debug, ",") {
				param.LogServices = append(param.LogServices, strings.TrimSpace(v))
			}
		}
	}
	*environ = strings.ToLower(*environ)
	if *environ != "prd" && *environ != "dev" {
		fmt.Fprintf(os.Stderr, "\nEnvironment must be either %q or %q. Default: %[2]q\n", "prd", "dev")
		return exitError
	}
	param.Environ = *environ
	param.Region = *region
	param.StatsSystem = *showStats == 1

	// start any syslog services
	if err := slog.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting system log: %s\n", err)
		return exitError
	}
	defer slog.Stop()

	for _, a := range args {
		syslog(a)
	}

	tstart := time.Now()

	// services run on their own context so errors are still reported after a signal
	stop := startServices()
	syslog("all services started")
	// shutdown services before the system log is stopped
	defer stop()

	// transform context, cancelled by a signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// capture OS signals and cancel the context. The pipeline stops at the next line.
	appSignal := make(chan os.Signal, 3)
	signal.Notify(appSignal, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(appSignal)
	go func() {
		select {
		case s := <-appSignal:
			slog.LogAlert(logid, fmt.Sprintf("Received %s after %s. Terminating...", s, time.Since(tstart)))
			cancel()
		case <-ctx.Done():
		}
	}()

	// input, kept output and schema sink
	rdr, err := reader.Open(*inputFile)
	if err != nil {
		return fatal(err)
	}
	defer rdr.Close()

	var out io.Writer = os.Stdout
	if len(*outFile) > 0 {
		f, err := os.Create(*outFile)
		if err != nil {
			return fatal(fmt.Errorf("create output: %w", err))
		}
		defer f.Close()
		out = f
	}

	fsink, err := schema.OpenFile(*schemaFile)
	if err != nil {
		return fatal(err)
	}
	defer func() {
		if err := fsink.Close(); err != nil {
			slog.LogErr(logid, fmt.Errorf("close schema file: %w", err))
		}
	}()
	sinks := []schema.Sink{fsink}

	if len(*esAddr) > 0 {
		m, err := es.Connect(ctx, *esAddr, *esidx)
		if err != nil {
			elog.Add(logid, fmt.Errorf("schema mirror disabled: %w", err))
		} else {
			sinks = append(sinks, m)
		}
	}

	// run registry
	reg, closeReg := registry(ctx)
	defer closeReg()

	r, err := run.New(ctx, param.AppName, *inputFile, reg)
	if err != nil {
		return fatal(err)
	}
	syslog(fmt.Sprintf("Runid: %s", r.Id()))

	// transform
	p := pipeline.New(out, schema.NewSet(sinks...))
	err = stats.Run(func() error { return p.Run(ctx, rdr) }, "pipeline.Run")
	if err != nil {
		slog.LogErr(logid, err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	tend := time.Now()

	// the context may be cancelled: registry writes use their own
	bg := context.Background()
	counters := p.Counters()
	r.Finish(bg, err, counters.Map())
	admin.Persist(bg, r)

	if param.StatsSystem {
		counters.Report(os.Stderr)
		fmt.Fprint(os.Stderr, p.Durations().String())
		stats.Report(os.Stderr)
	}
	elog.PrintErrors(os.Stderr)

	status := run.Status(err)
	syslog(fmt.Sprintf("Completed....Runid: %s  Status: %s  Lines: %d  Duration: %s", r.Id(), status, rdr.Line(), tend.Sub(tstart)))

	switch status {
	case run.Completed:
		return exitOK
	case run.Panicked:
		return exitSignal
	}
	return exitError
}

// startServices powers on the error logging service and returns its shutdown func.
func startServices() (stop func()) {

	ctx, cancel := context.WithCancel(context.Background())

	var wpStart, ctxEnd sync.WaitGroup
	wpStart.Add(1)
	ctxEnd.Add(1)
	go elog.PowerOn(ctx, &wpStart, &ctxEnd) // error logging service
	wpStart.Wait()

	return func() {
		cancel()
		ctxEnd.Wait()
	}
}

func fatal(err error) int {
	slog.LogErr(logid, err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	return exitError
}

// registry returns the run registry selected by the runlog argument. A registry that cannot be
// reached is reported to errlog and replaced by the system log registry.
func registry(ctx context.Context) (run.Registry, func()) {

	nop := func() {}

	switch strings.ToLower(*runlog) {
	case "":
	case "dynamodb":
		reg, err := db.New(ctx, param.Region, "")
		if err != nil {
			elog.Add(logid, err)
			break
		}
		return reg, nop
	case "mysql":
		reg, err := mysql.Open(ctx, *dsn)
		if err != nil {
			elog.Add(logid, err)
			break
		}
		return reg, func() { reg.Close() }
	default:
		elog.Add(logid, fmt.Errorf("unknown run registry %q", *runlog))
	}
	return run.Nop(), nop
}
