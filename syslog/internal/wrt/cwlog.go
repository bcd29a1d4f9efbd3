//go:build cwlog
// +build cwlog

package wrt

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	param "github.com/fbprep/param"
	"github.com/fbprep/stats"
	"github.com/fbprep/syslog/internal/wrt/dbuf"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cwlogs "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

type cwLog byte

// implement IO.Writer interface
func (b cwLog) Write(p []byte) (i int, err error) {

	s := string(p)
	t := time.Now().UnixMilli()

	logCh <- &types.InputLogEvent{Message: &s, Timestamp: &t}

	return len(p), nil
}

var (
	uploadInterval = 2 * time.Second
	lastUpload     time.Time
	logStream      *string
	logGroup       string
	client         *cwlogs.Client
	seqToken       *string
	//
	uploadCh chan struct{}
	logCh    chan *types.InputLogEvent
	//
	cancel         context.CancelFunc
	ctx            context.Context
	wgStart, wgEnd sync.WaitGroup
	// fileLogr supports cwlogger errors
	fileLogr *log.Logger
	//
	eod = &types.InputLogEvent{}
)

func New(f *log.Logger) io.Writer {
	var w cwLog
	return w
}

func newCWLogClient() (*cwlogs.Client, error) {

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(param.Region))
	if err != nil {
		return nil, fmt.Errorf("configuration error, %w", err)
	}
	return cwlogs.NewFromConfig(cfg), nil
}

func createLogStream() error {
	// create a Log Stream
	var s strings.Builder
	s.WriteByte('/')
	s.WriteString(param.Environ)
	s.WriteByte('/')
	s.WriteString(time.Now().Format("20060102T150405"))
	s.WriteString(".log")

	logStream = aws.String(s.String())

	_, err := client.CreateLogStream(ctx, &cwlogs.CreateLogStreamInput{LogGroupName: &logGroup, LogStreamName: logStream})
	return err
}

func Start(flogr *log.Logger) error {

	var err error

	client, err = newCWLogClient()
	if err != nil {
		return err
	}
	fileLogr = flogr

	ctx, cancel = context.WithCancel(context.Background())

	// register statistic labels
	stats.Register("PutLogEvents", 500*time.Millisecond)

	logGroup = param.AppName + "-" + param.Environ
	if err = createLogStream(); err != nil {
		cancel()
		return err
	}

	wgStart.Add(1)
	wgEnd.Add(1)

	go PowerOn(ctx, &wgStart, &wgEnd)

	wgStart.Wait()

	return nil
}

func Stop() {

	// place EOD on logCh - which will empty logCh and then close down.
	logCh <- eod

	wgEnd.Wait()
	cancel()
}

// upload to Cloudwatch logs using PutLogEvents(). Executions are serialised via uploadCh.
// NB: upload is called only when there are log events to upload
func upload(b []types.InputLogEvent) {

	defer func() { uploadCh <- struct{}{} }()

	t0 := time.Now()

	plei := &cwlogs.PutLogEventsInput{LogEvents: b, LogGroupName: &logGroup, LogStreamName: logStream, SequenceToken: seqToken}

	pleo, err := client.PutLogEvents(ctx, plei)
	if err != nil {
		fileLogr.Print(fmt.Errorf("Error in PutLogEvents of CloudwatchLogs: %w", err))
		return
	}
	if v := pleo.RejectedLogEventsInfo; v != nil {
		fileLogr.Printf("PutLogEvents: rejected log events %#v", *v)
	}
	seqToken = pleo.NextSequenceToken

	stats.SaveEventStats(stats.EvAPI, time.Now().Sub(t0), "PutLogEvents")
}

func PowerOn(ctx context.Context, wgStart *sync.WaitGroup, wgEnd *sync.WaitGroup) {

	defer wgEnd.Done()

	logCh = make(chan *types.InputLogEvent, param.LogChBufSize)

	// serialise execution of upload() using uploadCh
	uploadCh = make(chan struct{}, 1)
	uploadCh <- struct{}{}

	ticker := time.NewTicker(uploadInterval)
	defer ticker.Stop()

	lastUpload = time.Now()
	evBuf := dbuf.New(param.CWLogLoadSize)

	wgStart.Done()

	for {

		select {

		case ie := <-logCh:

			// check for EOD (end-of-data)
			if ie == eod {
				if evBuf.WriteBuf() > 0 {
					stats.RecvOnCh(uploadCh, "EODUpload")
					evBuf.Swap()
					upload(evBuf.Read())
				}
				// wait for any inflight upload
				<-uploadCh
				return
			}

			if evBuf.Write(ie) == param.CWLogLoadSize {

				// wait until currently executing upload() finishes.
				stats.RecvOnCh(uploadCh, "FullBufUpload")

				evBuf.Swap()
				lastUpload = time.Now()

				go upload(evBuf.Read())
			}

		case <-ticker.C:

			if time.Since(lastUpload) > uploadInterval && evBuf.WriteBuf() > 0 {

				stats.RecvOnCh(uploadCh, "TimedUpload")

				evBuf.Swap()
				lastUpload = time.Now()

				go upload(evBuf.Read())
			}

		case <-ctx.Done():
			return
		}
	}
}
