package stats

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	param "github.com/fbprep/param"

	hdr "github.com/HdrHistogram/hdrhistogram-go"
)

type Event int8
type Label string

const (
	EvWaitOnCh Event = iota + 1
	EvWaitSendOnCh
	EvWaitRecvOnCh
	EvAPI
	_limit_
)

func (e Event) String() string {
	switch e {
	case 0:
		return "NA"
	case EvWaitOnCh:
		return "OnCh"
	case EvWaitSendOnCh:
		return "SendOnCh"
	case EvWaitRecvOnCh:
		return "RecvOnCh"
	case EvAPI:
		return "API"
	}
	return "NoString"
}

func init() {
	lblMap = make(evLabelMap)
	regMap = make(map[Label]*limits)

	// set system sample duration used when user defined statistic label limits are not set.
	var err error
	SampleDuration, err = time.ParseDuration(param.SampleDurWaits)
	if err != nil {
		panic(err)
	}
}

// any duration based stats e.g. cloud api elapsed time, go channel wait
type durStats struct {
	event  Event
	last   time.Time
	d      []int64 // duration values
	mean   float64
	stddev float64
	p50    float64 // milliseconds
	p80    float64 // milliseconds
	m      *i64mmx // min,max,sum,cnt
}

func (d *durStats) Mean() float64 {
	return d.mean
}

func (d *durStats) SD() float64 {
	return d.stddev
}
func (d *durStats) P50() float64 {
	return d.p50
}
func (d *durStats) P80() float64 {
	return d.p80
}

func (s *durStats) GetMMS() *I64mmx {
	if s != nil {
		return s.m.MMX()
	}
	return nil
}

func (s *durStats) SampleSize() int {
	return len(s.d)
}

func (s *durStats) LastSample() time.Time {
	return s.last
}

// keep determines whether a sample should be saved based on the label's sample duration
func (s *durStats) keep(l Label) (time.Time, bool) {
	var sampledur time.Duration

	t := time.Now()
	if r, ok := regMap[l]; !ok {
		sampledur = SampleDuration
	} else {
		sampledur = r.sampleDur
	}
	return t, t.Sub(s.last) > sampledur
}

func (s *durStats) Event() string {
	return s.event.String()
}

type eventS []*durStats
type evLabelMap map[Label]*eventS

var (
	lblMap evLabelMap
	save   sync.Mutex
	//statistics thresholds
	SampleDuration time.Duration // duration between samples for stats gathering when not stipulated.
)

type I64mmx struct {
	Min int64
	Max int64
	Cnt int64
	Sum int64
}

type i64mmx struct {
	min int64
	max int64
	cnt int64
	sum int64
}

func newi64mmx(v int64) *i64mmx {
	return &i64mmx{min: v, max: v, sum: v, cnt: 1}
}

func (c *i64mmx) update(v int64) {

	if c.min > v {
		c.min = v
	}
	if c.max < v {
		c.max = v
	}
	c.sum += v
	c.cnt++
}

func (c *i64mmx) String() string {
	if c != nil {
		return fmt.Sprintf("Min: %d, Max: %d  Cnt: %d  Sum: %d  Avg: %g\n", c.min, c.max, c.cnt, c.sum, float64(c.sum)/float64(c.cnt))
	}
	return ""
}

func (i *i64mmx) MMX() *I64mmx {
	return &I64mmx{Min: i.min, Max: i.max, Cnt: i.cnt, Sum: i.sum}
}

type limits struct {
	sampleDur time.Duration // minimum duration between samples
	maxSample int           // max number of samples
}

var regMap map[Label]*limits

// Register sets the sample duration (and optionally the sample size) for a label.
func Register(lbl Label, sampledur time.Duration, maxSam ...int) {

	save.Lock()

	if l, ok := regMap[lbl]; !ok {
		if len(maxSam) > 0 {
			regMap[lbl] = &limits{sampleDur: sampledur, maxSample: maxSam[0]}
		} else {
			regMap[lbl] = &limits{sampleDur: sampledur}
		}

	} else {

		l.sampleDur = sampledur
		if len(maxSam) > 0 {
			l.maxSample = maxSam[0]
		}
	}

	save.Unlock()
}

func SaveEventStats(ev Event, dur time.Duration, label Label) {

	saveEventStats(ev, dur, label)

}

// saveEventStats stores the stats data into slice and map structures. It is concurrency safe.
// Only a sample of durations is kept (see Register) but min, max, count and sum reflect every call.
func saveEventStats(ev Event, dur time.Duration, label Label) {

	save.Lock()
	defer save.Unlock()

	l, ok := lblMap[label]
	if !ok {
		evs := make(eventS, _limit_)
		l = &evs
		lblMap[label] = l
	}
	dr := (*l)[ev]
	if dr == nil {
		(*l)[ev] = &durStats{event: ev, d: []int64{int64(dur)}, m: newi64mmx(int64(dur)), last: time.Now()}
		return
	}
	// determine whether the data should be saved based on label limit values (see Register())
	if t, sv := dr.keep(label); sv {
		max := param.MaxSampleSet
		if r, ok := regMap[label]; ok && r.maxSample > 0 {
			max = r.maxSample
		}
		if len(dr.d) < max {
			dr.d = append(dr.d, int64(dur))
			dr.last = t
		}
	}
	// keep track of min,max,execs,sum for all save requests
	dr.m.update(int64(dur))
}

func GetLabelMap() evLabelMap {
	return lblMap
}

// AggregateDurationStats calculates mean, stddev and percentiles (milliseconds) from the sampled durations.
// It is not intended to be run while statistics are being collected.
func AggregateDurationStats() {

	save.Lock()
	defer save.Unlock()

	// aggregate by label
	for _, v := range lblMap {
		for _, e := range *v {
			if e == nil {
				continue
			}
			hist := hdr.New(0, 900000000, 3)
			// ignore first value in sample set if more than one in sample
			first := 0
			if len(e.d) > 1 {
				first = 1
			}
			for _, val := range e.d[first:] {
				val := val / 1000 // microseconds
				if err := hist.RecordValue(val); err != nil {
					// out of range, keep the maximum trackable value
					hist.RecordValue(hist.HighestTrackableValue())
				}
			}
			// output in millsecond (1000 microseconds)
			e.mean = hist.Mean() / 1000
			e.stddev = hist.StdDev() / 1000
			e.p50 = float64(hist.ValueAtQuantile(50)) / 1000
			e.p80 = float64(hist.ValueAtQuantile(80)) / 1000
		}
	}
}

// Row is the persisted form of the statistics for one label and event.
type Row struct {
	Sortk       string
	Execs       int64
	Sum         int64
	MaxValue    int64
	MinValue    int64
	Mean        float64 // milliseconds, all executions
	SampleMean  float64 // milliseconds, sampled executions
	SD          float64
	P50         float64
	P80         float64
	SampleSize  int
	LastSampled time.Time
}

// Rows returns one Row per label and event, ordered by sort key. Call AggregateDurationStats first.
func Rows() []Row {

	save.Lock()
	defer save.Unlock()

	var rows []Row
	for k, vv := range lblMap {
		for _, v := range *vv {
			if v == nil {
				continue
			}
			mmx := v.GetMMS()
			sk := "wait#" + v.Event() + "#tag#" + string(k)
			rows = append(rows, Row{
				Sortk:       sk,
				Execs:       mmx.Cnt,
				Sum:         mmx.Sum,
				MaxValue:    mmx.Max,
				MinValue:    mmx.Min,
				Mean:        float64(mmx.Sum) / float64(mmx.Cnt) / 1000000.0,
				SampleMean:  v.Mean(),
				SD:          v.SD(),
				P50:         v.P50(),
				P80:         v.P80(),
				SampleSize:  v.SampleSize(),
				LastSampled: v.LastSample(),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sortk < rows[j].Sortk })
	return rows
}

// Report writes the aggregated statistics to w
func Report(w io.Writer) {
	for _, r := range Rows() {
		fmt.Fprintf(w, "%-40s execs: %d  mean: %.3fms  p50: %.3fms  p80: %.3fms  max: %s\n", r.Sortk, r.Execs, r.Mean, r.P50, r.P80, time.Duration(r.MaxValue))
	}
}

// Reset clears all statistics. Used by tests.
func Reset() {
	save.Lock()
	lblMap = make(evLabelMap)
	regMap = make(map[Label]*limits)
	save.Unlock()
}

func RecvOnCh(ch chan struct{}, label Label) {
	t0 := time.Now()

	<-ch

	saveEventStats(EvWaitRecvOnCh, time.Since(t0), label)
}

func SendOnCh(ch chan struct{}, label Label) {
	t0 := time.Now()

	ch <- struct{}{}

	saveEventStats(EvWaitSendOnCh, time.Since(t0), label)
}

// Run executes f, saving its duration against label as an API event.
func Run(f func() error, label Label) error {

	t0 := time.Now()
	err := f()
	saveEventStats(EvAPI, time.Since(t0), label)
	return err
}
