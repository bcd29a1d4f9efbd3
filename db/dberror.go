// db package error types. Each occurrence is written to the syslog. Errors are not added to the errlog,
// this is left to the application.
package db

import (
	"errors"
	"fmt"
)

var ErrUnprocessed = errors.New("unprocessed items remain")

type DBSysErr struct {
	routine string
	api     string // DynamoDB operation
	err     error  // aws error
}

func (e *DBSysErr) Unwrap() error {
	return e.err
}

func (e *DBSysErr) Error() string {
	return fmt.Sprintf("DB system error in %s of %s. %s", e.api, e.routine, e.err.Error())
}

func newDBSysErr(rt string, api string, err error) error {
	e := &DBSysErr{routine: rt, api: api, err: err}
	logerr(e)
	return e
}

type DBExprErr struct {
	routine string
	pkey    string
	err     error // InvalidParameterError, UnsetParameterError use errors.As
}

func newDBExprErr(rt string, pk string, err error) error {
	e := &DBExprErr{routine: rt, pkey: pk, err: err}
	logerr(e)
	return e
}

func (e *DBExprErr) Error() string {
	return fmt.Sprintf("Expression error in %s [%s]. %s", e.routine, e.pkey, e.err.Error())
}

func (e *DBExprErr) Unwrap() error {
	return e.err
}

type DBMarshalingErr struct {
	routine string
	pkey    string
	sortk   string
	err     error
}

func newDBMarshalingErr(rt string, pk string, sk string, err error) error {
	e := &DBMarshalingErr{routine: rt, pkey: pk, sortk: sk, err: err}
	logerr(e)
	return e
}

func (e *DBMarshalingErr) Error() string {
	if len(e.sortk) > 0 {
		return fmt.Sprintf("Marshalling error in %s [%s, %s]. %s", e.routine, e.pkey, e.sortk, e.err.Error())
	}
	return fmt.Sprintf("Marshalling error in %s [%s]. %s", e.routine, e.pkey, e.err.Error())
}

func (e *DBMarshalingErr) Unwrap() error {
	return e.err
}
