package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("CB_TEST_INT", "42")
	if got := Int("CB_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	t.Setenv("CB_TEST_INT", "nope")
	if got := Int("CB_TEST_INT", 7); got != 7 {
		t.Fatalf("Int fallback: want=7 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("CB_TEST_BOOL", "on")
	if !Bool("CB_TEST_BOOL", false) {
		t.Fatalf("Bool: want=true")
	}
	t.Setenv("CB_TEST_BOOL", "maybe")
	if Bool("CB_TEST_BOOL", false) {
		t.Fatalf("Bool fallback: want=false")
	}
}

func TestSeconds(t *testing.T) {
	t.Setenv("CB_TEST_TTL", "90")
	if got := Seconds("CB_TEST_TTL", time.Minute); got != 90*time.Second {
		t.Fatalf("Seconds: want=90s got=%s", got)
	}
	t.Setenv("CB_TEST_TTL", "-1")
	if got := Seconds("CB_TEST_TTL", time.Minute); got != time.Minute {
		t.Fatalf("Seconds fallback: want=1m got=%s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("CB_TEST_LIST", " a, ,b ,")
	got := List("CB_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: want=[a b] got=%v", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("CB_TEST_FLOAT", "0.25")
	if got := Float("CB_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: want=0.25 got=%v", got)
	}
	t.Setenv("CB_TEST_FLOAT", "x")
	if got := Float("CB_TEST_FLOAT", 1); got != 1 {
		t.Fatalf("Float fallback: want=1 got=%v", got)
	}
}
