package db

import (
	"context"
	"fmt"
	"time"

	param "github.com/fbprep/param"
	"github.com/fbprep/run"
	"github.com/fbprep/stats"
	slog "github.com/fbprep/syslog"
	"github.com/fbprep/tbl"
	"github.com/fbprep/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	logid = "DB"
	// DynamoDB BatchWriteItem limit
	batchSize = 25
	// retries of unprocessed batch items
	maxUnprocRetries = 5
)

func syslog(s string) {
	slog.Log(logid, s)
}

func logerr(e error) {
	slog.LogErr(logid, e)
}

// api is the subset of the DynamoDB client used by the registry
type api interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Registry records runs in the DynamoDB tables mon_run and mon_runstat.
type Registry struct {
	client  api
	monrun  tbl.Name
	runstat tbl.Name
	tz      *time.Location
}

// runItem is the mon_run item written at the start of a run
type runItem struct {
	Run     []byte `dynamodbav:"run"`
	Sortk   string `dynamodbav:"sortk"`
	Program string `dynamodbav:"program"`
	Status  string `dynamodbav:"status"`
	Start   string `dynamodbav:"start"`
	LogFile string `dynamodbav:"logfile,omitempty"`
	Input   string `dynamodbav:"input"`
}

// statItem is one mon_runstat item
type statItem struct {
	Run         []byte  `dynamodbav:"run"`
	Sortk       string  `dynamodbav:"sortk"`
	Execs       int64   `dynamodbav:"execs"`
	Sum         int64   `dynamodbav:"Sum"`
	MaxValue    int64   `dynamodbav:"MaxValue"`
	MinValue    int64   `dynamodbav:"MinValue"`
	Mean        float64 `dynamodbav:"Mean"`
	SampleMean  float64 `dynamodbav:"SampleMean"`
	SD          float64 `dynamodbav:"SD"`
	P50         float64 `dynamodbav:"p50"`
	P80         float64 `dynamodbav:"p80"`
	SampleSize  int     `dynamodbav:"SampleSize"`
	LastSampled string  `dynamodbav:"LastSampled"`
}

// New loads the default AWS configuration (environment, shared credentials and config files) for region.
// prefix, if any, is prepended to the table names e.g. "dev" gives dev_mon_run.
func New(ctx context.Context, region string, prefix string) (*Registry, error) {

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}
	syslog(fmt.Sprintf("DynamoDB run registry in region %s", region))

	return newRegistry(dynamodb.NewFromConfig(cfg), prefix), nil
}

func newRegistry(client api, prefix string) *Registry {

	mr, rs := tbl.Set(prefix)
	tz, err := time.LoadLocation(param.TZ)
	if err != nil {
		tz = time.UTC
	}
	return &Registry{client: client, monrun: mr, runstat: rs, tz: tz}
}

func (r *Registry) key(t tbl.Name, runid uuid.UID, sortk string) (map[string]types.AttributeValue, error) {

	pk, sk, err := tbl.GetKeys(t)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{
		pk: &types.AttributeValueMemberB{Value: runid},
		sk: &types.AttributeValueMemberS{Value: sortk},
	}, nil
}

func (r *Registry) ts(t time.Time) string {
	return t.In(r.tz).Format(time.RFC3339Nano)
}

// Begin puts the run item with status R.
func (r *Registry) Begin(ctx context.Context, rec *run.Record) error {

	item := runItem{
		Run:     rec.Run,
		Sortk:   "AA",
		Program: rec.Program,
		Status:  rec.Status,
		Start:   r.ts(rec.Start),
		LogFile: rec.LogFile,
		Input:   rec.Input,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return newDBMarshalingErr("Begin", rec.Run.String(), "AA", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(string(r.monrun)),
		Item:      av,
	})
	if err != nil {
		return newDBSysErr("Begin", "PutItem", err)
	}
	return nil
}

// End updates the run item with the final status, finish time, elapsed time and counters.
func (r *Registry) End(ctx context.Context, rec *run.Record) error {

	key, err := r.key(r.monrun, rec.Run, "AA")
	if err != nil {
		return err
	}
	upd := expression.Set(expression.Name("status"), expression.Value(rec.Status))
	upd = upd.Set(expression.Name("finish"), expression.Value(r.ts(rec.Finish)))
	upd = upd.Set(expression.Name("Elapsed"), expression.Value(rec.Elapsed.String()))
	if len(rec.Error) > 0 {
		upd = upd.Set(expression.Name("error"), expression.Value(rec.Error))
	}
	if len(rec.Counters) > 0 {
		upd = upd.Set(expression.Name("counters"), expression.Value(rec.Counters))
	}
	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return newDBExprErr("End", rec.Run.String(), err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(string(r.monrun)),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
	})
	if err != nil {
		return newDBSysErr("End", "UpdateItem", err)
	}
	return nil
}

// SaveStats writes one mon_runstat item per row using batched writes.
func (r *Registry) SaveStats(ctx context.Context, runid uuid.UID, rows []stats.Row) error {

	var reqs []types.WriteRequest

	for _, row := range rows {
		av, err := attributevalue.MarshalMap(statItem{
			Run:         runid,
			Sortk:       row.Sortk,
			Execs:       row.Execs,
			Sum:         row.Sum,
			MaxValue:    row.MaxValue,
			MinValue:    row.MinValue,
			Mean:        row.Mean,
			SampleMean:  row.SampleMean,
			SD:          row.SD,
			P50:         row.P50,
			P80:         row.P80,
			SampleSize:  row.SampleSize,
			LastSampled: r.ts(row.LastSampled),
		})
		if err != nil {
			return newDBMarshalingErr("SaveStats", runid.String(), row.Sortk, err)
		}
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	for len(reqs) > 0 {
		n := batchSize
		if len(reqs) < n {
			n = len(reqs)
		}
		if err := r.batchWrite(ctx, reqs[:n]); err != nil {
			return err
		}
		reqs = reqs[n:]
	}
	return nil
}

func (r *Registry) batchWrite(ctx context.Context, reqs []types.WriteRequest) error {

	items := map[string][]types.WriteRequest{string(r.runstat): reqs}

	for i := 0; i <= maxUnprocRetries; i++ {

		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: items})
		if err != nil {
			return newDBSysErr("SaveStats", "BatchWriteItem", err)
		}
		if out == nil || len(out.UnprocessedItems) == 0 {
			return nil
		}
		items = out.UnprocessedItems
		syslog(fmt.Sprintf("BatchWriteItem: %d unprocessed items [retry: %d]", len(items[string(r.runstat)]), i+1))
		time.Sleep(time.Duration(i+1) * 100 * time.Millisecond)
	}
	return newDBSysErr("SaveStats", "BatchWriteItem", fmt.Errorf("%w after %d retries", ErrUnprocessed, maxUnprocRetries))
}
