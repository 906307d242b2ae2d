package proto

import "testing"

func TestKeyPayload(t *testing.T) {
	k, ok := DecodeKey(KeyPayload(KeyLeft))
	if !ok || k != KeyLeft {
		t.Fatalf("DecodeKey() = %s, %t; want left", k, ok)
	}
	if _, ok := DecodeKey(nil); ok {
		t.Fatal("DecodeKey(nil) ok = true, want false")
	}
	n, ok := DecodeStepLength(StepLengthPayload(12))
	if !ok || n != 12 {
		t.Fatalf("DecodeStepLength() = %d, %t; want 12", n, ok)
	}
	pps, ok := DecodePPS(PPSPayload(45000))
	if !ok || pps != 45000 {
		t.Fatalf("DecodePPS() = %d, %t; want 45000", pps, ok)
	}
	if _, ok := DecodePPS([]byte{1, 2}); ok {
		t.Fatal("DecodePPS(short) ok = true, want false")
	}
}

func TestKindString(t *testing.T) {
	if got := MsgLogLine.String(); got != "log_line" {
		t.Fatalf("MsgLogLine.String() = %q", got)
	}
	if got := Kind(999).String(); got != "unknown" {
		t.Fatalf("Kind(999).String() = %q", got)
	}
}
