package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fbprep/run"
	"github.com/fbprep/stats"
	slog "github.com/fbprep/syslog"
	"github.com/fbprep/tbl"
	"github.com/fbprep/uuid"

	"github.com/go-sql-driver/mysql"
)

const (
	logid = "mysql"
	// ER_DUP_ENTRY
	errDupEntry = 1062
)

var ErrDuplicateRun = errors.New("run already registered")

func logerr(e error) {
	slog.LogErr(logid, e)
}

func syslog(s string) {
	slog.Log(logid, s)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Registry records runs in the MySQL tables mon_run and mon_runstat.
type Registry struct {
	db      execer
	closer  func() error
	monrun  tbl.Name
	runstat tbl.Name
}

// Open connects to the database described by dsn e.g. "user:pwd@tcp(host:3306)/fbprep".
// The connection is validated with a ping and the registry tables are created if they do not exist.
func Open(ctx context.Context, dsn string) (*Registry, error) {

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	mdb := sql.OpenDB(connector)

	// OpenDB doesn't open a connection. Validate DSN data:
	if err = mdb.PingContext(ctx); err != nil {
		mdb.Close()
		return nil, fmt.Errorf("mysql ping %s@%s: %w", cfg.User, cfg.Addr, err)
	}
	syslog(fmt.Sprintf("connected to %s/%s", cfg.Addr, cfg.DBName))

	r := newRegistry(mdb)
	r.closer = mdb.Close
	if err = r.createTables(ctx); err != nil {
		mdb.Close()
		return nil, err
	}
	return r, nil
}

func newRegistry(db execer) *Registry {
	mr, rs := tbl.Set("")
	return &Registry{db: db, monrun: mr, runstat: rs}
}

func (r *Registry) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

func (r *Registry) createTables(ctx context.Context) error {

	for _, ddl := range []string{
		"create table if not exists " + string(r.monrun) + ` (
			run binary(16) not null,
			sortk varchar(8) not null,
			program varchar(64),
			status char(1),
			start datetime(6),
			finish datetime(6),
			elapsed varchar(32),
			logfile varchar(256),
			input varchar(256),
			error text,
			counters json,
			primary key (run, sortk))`,
		"create table if not exists " + string(r.runstat) + ` (
			run binary(16) not null,
			sortk varchar(256) not null,
			execs bigint,
			sum bigint,
			maxvalue bigint,
			minvalue bigint,
			mean double,
			samplemean double,
			sd double,
			p50 double,
			p80 double,
			samplesize int,
			lastsampled datetime(6),
			primary key (run, sortk))`,
	} {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create registry table: %w", err)
		}
	}
	return nil
}

// Begin inserts the run row with status R.
func (r *Registry) Begin(ctx context.Context, rec *run.Record) error {

	_, err := r.db.ExecContext(ctx,
		"insert into "+string(r.monrun)+" (run, sortk, program, status, start, logfile, input) values (?,?,?,?,?,?,?)",
		[]byte(rec.Run), "AA", rec.Program, rec.Status, rec.Start.UTC(), rec.LogFile, rec.Input)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == errDupEntry {
			err = fmt.Errorf("%w: %s: %w", ErrDuplicateRun, rec.Run, err)
		}
		logerr(err)
		return err
	}
	return nil
}

// End updates the run row with the final status, finish time, elapsed time and counters.
func (r *Registry) End(ctx context.Context, rec *run.Record) error {

	var counters []byte
	if len(rec.Counters) > 0 {
		var err error
		if counters, err = json.Marshal(rec.Counters); err != nil {
			return fmt.Errorf("marshal counters: %w", err)
		}
	}
	_, err := r.db.ExecContext(ctx,
		"update "+string(r.monrun)+" set status = ?, finish = ?, elapsed = ?, error = ?, counters = ? where run = ? and sortk = ?",
		rec.Status, rec.Finish.UTC(), rec.Elapsed.String(), nullString(rec.Error), nullBytes(counters), []byte(rec.Run), "AA")
	if err != nil {
		logerr(err)
		return err
	}
	return nil
}

// SaveStats inserts one mon_runstat row per statistics row.
func (r *Registry) SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error {

	q := "insert into " + string(r.runstat) +
		" (run, sortk, execs, sum, maxvalue, minvalue, mean, samplemean, sd, p50, p80, samplesize, lastsampled) values (?,?,?,?,?,?,?,?,?,?,?,?,?)"

	for _, s := range rows {
		_, err := r.db.ExecContext(ctx, q, []byte(runid), s.Sortk, s.Execs, s.Sum, s.MaxValue, s.MinValue,
			s.Mean, s.SampleMean, s.SD, s.P50, s.P80, s.SampleSize, s.LastSampled.UTC())
		if err != nil {
			logerr(err)
			return fmt.Errorf("save statistic %s: %w", s.Sortk, err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: len(s) > 0}
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
