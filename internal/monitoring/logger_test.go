package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("volume batch complete")
	if got != "volume batch complete" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op logger rather than a nil function.
	SetLogger(nil)
	got = ""
	Logf("muted")
	if got != "" {
		t.Error("no-op logger should not record anything")
	}
}

func TestLogfDefaultIsUsable(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
