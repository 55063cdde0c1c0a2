package report

import (
	"errors"
	"testing"
)

func TestCatchErrors(t *testing.T) {
	check := func() (err error) {
		defer CatchErrors(&err)
		panic(Raise(&TextSpan{StartLine: 2, StartCol: 4}, "bad `%s`", "x"))
	}

	err := check()

	var lce *LocalCompileError
	if !errors.As(err, &lce) {
		t.Fatalf("expected a local compile error, got %v", err)
	}

	if got := err.Error(); got != "3:5: bad `x`" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCatchErrorsLetsICEsThrough(t *testing.T) {
	var ice *InternalError

	func() {
		defer CatchICE(&ice)

		func() (err error) {
			defer CatchErrors(&err)
			ReportICE("broken %d", 7)
			return nil
		}()
	}()

	if ice == nil || ice.Message != "broken 7" {
		t.Fatalf("ICE was not propagated: %v", ice)
	}
}

func TestNewSpanOver(t *testing.T) {
	a := &TextSpan{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 3}
	b := &TextSpan{StartLine: 4, StartCol: 0, EndLine: 5, EndCol: 9}

	got := NewSpanOver(a, b)
	if *got != (TextSpan{StartLine: 1, StartCol: 2, EndLine: 5, EndCol: 9}) {
		t.Errorf("unexpected span %+v", got)
	}

	if NewSpanOver(nil, b) != b || NewSpanOver(a, nil) != a {
		t.Error("nil spans are not skipped")
	}
}
