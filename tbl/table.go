package tbl

import (
	"fmt"
	"sync"
)

type Name string

const (
	Monrun  Name = "mon_run"     // one item per run
	RunStat Name = "mon_runstat" // one item per statistics label/event of a run
)

type key struct {
	pk string
	sk string
}

type keyMap map[Name]key

var keysync sync.RWMutex

var keys keyMap

func init() {

	// both registry tables are keyed on the run id (binary UUID) and a sort key.
	keys = keyMap{
		Monrun:  key{"run", "sortk"},
		RunStat: key{"run", "sortk"},
	}

}

// Set prefixes the registry table names, e.g. with an environment name. Returns the prefixed names.
func Set(prefix string) (Name, Name) {
	if len(prefix) == 0 {
		return Monrun, RunStat
	}
	mr, rs := Name(prefix+"_"+string(Monrun)), Name(prefix+"_"+string(RunStat))
	Register(mr, "run", "sortk")
	Register(rs, "run", "sortk")
	return mr, rs
}

func Register(t Name, pk string, sk ...string) {
	var k key
	if len(sk) > 0 {
		k = key{pk, sk[0]}
	} else {
		k = key{pk: pk}
	}
	keysync.Lock()
	keys[t] = k
	keysync.Unlock()
}

func GetKeys(t Name) (string, string, error) {

	keysync.RLock()
	k, ok := keys[t]
	keysync.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("Table %s not found", t)
	}
	return k.pk, k.sk, nil
}
