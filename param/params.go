package param

import (
	"io"
	"log"
)

var (
	// DebugOn switches on logging for every prefix. Set by the "debug" argument ("all").
	DebugOn = false
	// Environ: dev or prd. Forms part of the CloudWatch log group name.
	Environ = "dev"
	// RunId is the string form of the current run's UUID, set by run.New.
	RunId string
	// LogFile is the system log file name when LOGDIR is defined.
	LogFile string
	// FileLogr supports the main logger (osfile or CWLogs) e.g. reporting upload errors.
	FileLogr *log.Logger
	// FileWriter is the open system log file (nil when logging to stderr).
	FileWriter io.WriteCloser
	// Region is the AWS region of the DynamoDB run registry and CloudWatch logs. Set by the "region" argument.
	Region = "us-east-1"
	// StatsSystem enables end of run reporting of counters, histograms and API statistics.
	StatsSystem bool
)

const (
	// Logging
	Logid   = "main:"
	AppName = "fbprep"

	// Input and output paths of the reference deployment
	InputFile  = "input/freebase-rdf-latest.gz"
	SchemaFile = "output/freebase.schema"

	// elasticsearch
	ESindex = "fbprep-schema"

	// MySQLEnv names the environment variable holding the default MySQL DSN for the run registry
	MySQLEnv = "FBPREP_MYSQL_DSN"

	// TimeZone used when persisting statistics timestamps
	TZ = "UTC"

	// stats
	SampleDurWaits = "100ms" // minimum duration between two samples of the same label
	MaxSampleSet   = 2000    // maximum number of duration samples kept per label/event

	// CloudWatch logs
	CWLogLoadSize = 200 // log events per PutLogEvents
	LogChBufSize  = 500

	// Read buffer for the dump reader
	ReadBufSize = 1 << 20
	// Write buffer for kept-output and schema sinks
	WriteBufSize = 1 << 20
)

// LogServices lists the log prefixes that are always logged, even when DebugOn is false.
// Added to by the "debug" argument.
var LogServices = []string{Logid, "run", "errlog"}
