package xid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New("txn")
	if !strings.HasPrefix(id, "txn-") {
		t.Fatalf("id = %s, want txn- prefix", id)
	}
	if id == New("txn") {
		t.Fatal("ids must be unique")
	}
}
