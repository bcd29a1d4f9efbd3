package tbl

import (
	"testing"
)

func TestGetKeys(t *testing.T) {

	pk, sk, err := GetKeys(Monrun)
	if err != nil {
		t.Fatal(err)
	}
	if pk != "run" || sk != "sortk" {
		t.Errorf("unexpected keys %s %s", pk, sk)
	}
	if _, _, err = GetKeys("unknown"); err == nil {
		t.Errorf("expected error for unregistered table")
	}
}

func TestSet(t *testing.T) {

	mr, rs := Set("prd")
	if mr != "prd_mon_run" || rs != "prd_mon_runstat" {
		t.Errorf("unexpected table names %s %s", mr, rs)
	}
	if _, _, err := GetKeys(rs); err != nil {
		t.Errorf("prefixed table not registered: %s", err)
	}
	if mr, rs = Set(""); mr != Monrun || rs != RunStat {
		t.Errorf("empty prefix should return base names")
	}
}
