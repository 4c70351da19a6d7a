package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("TIC %d measured", 445493624)
	if got != "TIC %d measured" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op, not a nil func.
	SetLogger(nil)
	got = ""
	Logf("should be dropped")
	if got != "" {
		t.Error("no-op logger still forwarded the message")
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf must not be nil by default")
	}
}
