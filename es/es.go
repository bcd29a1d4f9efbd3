// Package es mirrors the language tagged predicate list into an Elasticsearch index.
package es

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	elog "github.com/fbprep/errlog"
	param "github.com/fbprep/param"
	"github.com/fbprep/stats"
	slog "github.com/fbprep/syslog"

	esv7 "github.com/elastic/go-elasticsearch/v7"
	esapi "github.com/elastic/go-elasticsearch/v7/esapi"
)

const logid = "ElasticSearch"

func syslog(s string) {
	slog.Log(logid, s)
}

// Doc is the indexed form of one language tagged predicate
type Doc struct {
	Predicate string    `json:"predicate"`
	Type      string    `json:"type"`
	Run       string    `json:"run"`
	Seen      time.Time `json:"seen"`
}

// Mirror is a schema sink that indexes each new predicate. Indexing failures are reported to
// errlog and never returned, so the mirror cannot stop the transform.
type Mirror struct {
	ctx   context.Context
	es    *esv7.Client
	index string
	docs  int
}

// Connect creates a client for addr and checks the cluster responds.
func Connect(ctx context.Context, addr string, index string) (*Mirror, error) {

	syslog("Establish ES client...")
	es, err := esv7.NewClient(esv7.Config{Addresses: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("ES Error creating the client: %w", err)
	}
	//
	// Get cluster info
	//
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("ES Error getting Info response: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("ES Error: %s", res.String())
	}
	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("ES Error parsing the response body: %w", err)
	}
	syslog(fmt.Sprintf("Client: %s", esv7.Version))
	if v, ok := r["version"].(map[string]interface{}); ok {
		syslog(fmt.Sprintf("Server: %s", v["number"]))
	}

	// index names must be lowercase otherwise ES responds with a 400 error
	return &Mirror{ctx: ctx, es: es, index: strings.ToLower(index)}, nil
}

// DocumentID derives the document id from the predicate IRI
func DocumentID(pred string) string {
	return url.PathEscape(strings.Trim(pred, "<>"))
}

// Add indexes pred. It always returns nil.
func (m *Mirror) Add(pred string) error {

	d := Doc{Predicate: pred, Type: "string", Run: param.RunId, Seen: time.Now().UTC()}
	// IRIs are indexed as written, not as \u003c...\u003e
	var body strings.Builder
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		elog.Add(logid, fmt.Errorf("marshal %s: %w", pred, err))
		return nil
	}
	req := esapi.IndexRequest{
		Index:      m.index,
		DocumentID: DocumentID(pred),
		Body:       strings.NewReader(body.String()),
	}

	var res *esapi.Response
	err := stats.Run(func() error {
		var err error
		res, err = req.Do(m.ctx, m.es)
		return err
	}, "es.Index")
	if err != nil {
		elog.Add(logid, fmt.Errorf("Error getting response: %w", err))
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		elog.Add(logid, fmt.Errorf("Error indexing document ID=%s. Status: %v", d.Predicate, res.Status()))
		return nil
	}
	m.docs++
	syslog(fmt.Sprintf("[%s] indexed %s", res.Status(), pred))

	return nil
}

// Docs returns the number of documents indexed
func (m *Mirror) Docs() int {
	return m.docs
}
