package syslog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	param "github.com/fbprep/param"
	"github.com/fbprep/syslog/internal/wrt"
)

const (
	logrFlags = log.Ldate | log.Ltime | log.Lmicroseconds

	logDir  = "/fbprep/"
	logName = "fbprep"
	idFile  = "log.id"
)

// global logger - accessible from any routine
var (
	iow io.Writer = os.Stderr
	//
	logrMap = make(map[string]*log.Logger)
	logWRm  sync.RWMutex
)

// Start is called from main before any service is started.
func Start() error {

	// create a logger to be used to support the main logger (osfile or CWLogs)
	if param.FileLogr == nil {
		fileLogr := log.New(NewBaseErrFile(), "main", logrFlags)
		param.FileLogr = fileLogr
	}

	// assign either a file io.Writer or CloudWatchLogs io.Writer - determined by build tags
	w := wrt.New(param.FileLogr)

	logWRm.Lock()
	iow = w
	// existing loggers were created against the previous writer
	logrMap = make(map[string]*log.Logger)
	logWRm.Unlock()

	return wrt.Start(param.FileLogr)
}

// Stop drains any asynchronous writer and closes the log file.
func Stop() {
	wrt.Stop()
	if param.FileWriter != nil {
		param.FileWriter.Close()
	}
}

func newLogr(prefix string) *log.Logger {
	return log.New(iow, prefix+" ", logrFlags)
}

func logr(prefix string) *log.Logger {

	logWRm.RLock()
	l, ok := logrMap[prefix]
	logWRm.RUnlock()
	if ok {
		return l
	}
	logWRm.Lock()
	defer logWRm.Unlock()
	if l, ok = logrMap[prefix]; !ok {
		l = newLogr(prefix)
		logrMap[prefix] = l
	}
	return l
}

func enabled(prefix string) bool {
	if param.DebugOn {
		return true
	}
	for _, s := range param.LogServices {
		if strings.HasPrefix(prefix, s) {
			return true
		}
	}
	return false
}

// Log is the main function for logging text to the underlying storage system, either an os file
// (or stderr) or AWS Cloudwatch logs. Only prefixes listed in param.LogServices are logged unless
// param.DebugOn is set.
func Log(prefix string, s string, panic ...bool) {

	if len(panic) > 0 && panic[0] {
		logr(prefix).Panic(s)
		return
	}
	if !enabled(prefix) {
		return
	}
	// loggers share the one io.Writer which serialises access to its underlying resource.
	logr(prefix).Print(s)
}

// LogAlert logs irrespective of the debug settings.
func LogAlert(prefix string, s string) {
	logr(prefix).Print(s)
}

// LogErr logs an error irrespective of the debug settings.
func LogErr(prefix string, e error) {
	logr(prefix).Print("Error: " + e.Error())
}

// Logf formats according to a format specifier before calling Log.
func Logf(prefix string, format string, v ...interface{}) {
	if !enabled(prefix) {
		return
	}
	logr(prefix).Print(fmt.Sprintf(format, v...))
}

// NewBaseErrFile opens the system log file under $LOGDIR. The log id file (contains: a..z) is used to
// generate log files with naming convention <LOGDIR><logDir><logName>.<a..z>.log
// When LOGDIR is not defined logging is to stderr. Stdout is never used as it carries the transformed dump.
func NewBaseErrFile() io.Writer {

	dir := os.Getenv("LOGDIR")
	if len(dir) == 0 {
		return os.Stderr
	}
	if err := os.MkdirAll(dir+logDir, 0755); err != nil {
		log.Fatal(err)
	}
	idf, err := os.OpenFile(dir+logDir+idFile, os.O_RDWR|os.O_CREATE, 0744)
	if err != nil {
		log.Fatal(err)
	}
	//
	// read log id into postfix and update and save back to file
	//
	var n int
	postfix := make([]uint8, 1)
	n, err = idf.Read(postfix)
	if err != nil && err != io.EOF {
		log.Fatalf("log: error in reading log.id, %s", err.Error())
	}
	if n == 0 || postfix[0] == 'z' {
		postfix[0] = 'a'
	} else {
		postfix[0] += 1
	}
	// reset file to beginning and save postfix
	if _, err = idf.Seek(0, 0); err != nil {
		log.Fatalf("log: error in seek on id file, %s", err.Error())
	}
	if _, err = idf.Write(postfix); err != nil {
		log.Fatalf("log: error in writing to id file, %s", err.Error())
	}
	if err = idf.Close(); err != nil {
		log.Fatal(err)
	}
	//
	var s strings.Builder
	s.WriteString(dir)
	s.WriteString(logDir)
	s.WriteString(logName)
	s.WriteByte('.')
	s.WriteByte(postfix[0])
	s.WriteString(".log")

	param.LogFile = s.String()

	logf, err := os.OpenFile(s.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.Fatal(err)
	}
	param.FileWriter = logf
	return logf
}
