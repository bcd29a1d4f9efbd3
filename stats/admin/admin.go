package admin

//
// admin exists because of package cycle issues when persisting statistics from the stats package:
//    stats -> run -> stats   (cycle)
// So admin provides the persist function
//    admin -> run -> stats   (no cycle)
//

import (
	"context"
	"fmt"
	"sync"

	elog "github.com/fbprep/errlog"
	"github.com/fbprep/run"
	"github.com/fbprep/stats"
	slog "github.com/fbprep/syslog"
)

const logid = "admin"

var once sync.Once

// Persist aggregates the collected statistics and saves them against the run. It is designed to run
// once at the end of the program; later calls do nothing. Registry errors are reported to errlog.
func Persist(ctx context.Context, r *run.Run) {
	once.Do(func() { persistOnExit(ctx, r) })
}

func persistOnExit(ctx context.Context, r *run.Run) {

	stats.AggregateDurationStats()

	rows := stats.Rows()
	if len(rows) == 0 {
		return
	}
	slog.Log(logid, fmt.Sprintf("persist %d statistics rows for run %s", len(rows), r.Id()))

	if err := r.Registry().SaveStats(ctx, r.Id(), rows); err != nil {
		elog.Add(logid, fmt.Errorf("persist statistics: %w", err))
	}
}
