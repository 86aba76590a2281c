package xpc

import "testing"

func TestSignalsSetHasClear(t *testing.T) {
	var s Signals
	if s.Has(SigXoffRecvd) {
		t.Fatal("zero value should have no signals set")
	}
	s.Set(SigXoffRecvd)
	if !s.Has(SigXoffRecvd) {
		t.Fatal("Set should make Has true")
	}
	if s.Has(SigRstRecvd) {
		t.Fatal("Set should not affect unrelated bits")
	}
	s.Clear(SigXoffRecvd)
	if s.Has(SigXoffRecvd) {
		t.Fatal("Clear should make Has false")
	}
}

func TestSignalsIndependentBits(t *testing.T) {
	var s Signals
	s.Set(SigRstSend)
	s.Set(SigAckRecvd)
	if !s.Has(SigRstSend) || !s.Has(SigAckRecvd) {
		t.Fatal("both bits should be set")
	}
	s.Clear(SigRstSend)
	if s.Has(SigRstSend) {
		t.Fatal("SigRstSend should be cleared")
	}
	if !s.Has(SigAckRecvd) {
		t.Fatal("clearing one bit should not clear another")
	}
}
