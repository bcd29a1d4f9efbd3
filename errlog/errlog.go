package errlog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	slog "github.com/fbprep/syslog"
)

type Errors_ []*payload

type payload struct {
	Id  string
	Err error
}

const (
	logid = "errlog"
	// errors retained for the end of run report. All errors are logged.
	errLimit = 50
)

var (
	addCh    chan *payload
	PrintCh  chan printReq
	ErrCntCh chan chan int
	running  bool
	runMu    sync.RWMutex
)

type printReq struct {
	w      io.Writer
	respCh chan struct{}
}

// Add multiple errors (atleast one err) grouped under a logid to add channel.
// When the service is not running the errors are written to the system log only.
func Add(logid string, err ...error) {

	if len(err) == 0 {
		panic(fmt.Errorf("elog Add had no second (error) argument"))
	}

	logid = strings.TrimRight(logid, " :")

	runMu.RLock()
	defer runMu.RUnlock()
	for _, e := range err {
		if !running {
			slog.LogErr(logid, e)
			continue
		}
		addCh <- &payload{logid, e}
	}
}

// PrintErrors writes the accumulated errors to w and the system log.
func PrintErrors(w io.Writer) {
	runMu.RLock()
	defer runMu.RUnlock()
	if !running {
		return
	}
	respCh := make(chan struct{})
	PrintCh <- printReq{w: w, respCh: respCh}
	<-respCh
}

// Errors returns the number of errors added since the service started.
func Errors() int {
	runMu.RLock()
	defer runMu.RUnlock()
	if !running {
		return 0
	}
	respCh := make(chan int)
	ErrCntCh <- respCh
	return <-respCh
}

func PowerOn(ctx context.Context, wpStart *sync.WaitGroup, wgEnd *sync.WaitGroup) {

	defer wgEnd.Done()
	var (
		pld    *payload
		errors Errors_
		cnt    int
	)

	errCnt := make(map[string]int) // count errors by Id

	runMu.Lock()
	addCh = make(chan *payload)
	PrintCh = make(chan printReq)
	ErrCntCh = make(chan chan int)
	running = true
	runMu.Unlock()

	wpStart.Done()
	slog.LogAlert(logid, "Powering up...")

	for {

		select {

		case pld = <-addCh:

			// log to log file or CW logs
			slog.LogErr(pld.Id, pld.Err)

			cnt++
			errCnt[pld.Id]++
			if len(errors) < errLimit {
				errors = append(errors, pld)
			}

		case respCh := <-ErrCntCh:

			respCh <- cnt

		case req := <-PrintCh:

			slog.LogAlert(logid, fmt.Sprintf(" ==================== ERRORS : %d	==============", cnt))
			fmt.Fprintf(req.w, " ==================== ERRORS : %d	==============\n", cnt)
			for _, e := range errors {
				slog.LogAlert(logid, fmt.Sprintf(" %s %s", e.Id, e.Err))
				fmt.Fprintln(req.w, e.Id, e.Err)
			}
			if cnt > len(errors) {
				fmt.Fprintf(req.w, " ... %d more, see system log\n", cnt-len(errors))
			}
			for k, v := range errCnt {
				slog.LogAlert(logid, fmt.Sprintf(" %s: %d errors", k, v))
			}

			req.respCh <- struct{}{}

		case <-ctx.Done():
			// stop accepting errors before shutdown. Add and PrintErrors hold a read lock while using the channels.
			stopped := make(chan struct{})
			go func() {
				runMu.Lock()
				running = false
				runMu.Unlock()
				close(stopped)
			}()
			for {
				select {
				case pld = <-addCh:
					slog.LogErr(pld.Id, pld.Err)
				case respCh := <-ErrCntCh:
					respCh <- cnt
				case req := <-PrintCh:
					req.respCh <- struct{}{}
				case <-stopped:
					slog.LogAlert(logid, "Shutdown.")
					return
				}
			}
		}
	}
}
