package clipboard

import (
	"testing"
)

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindEmpty: "empty",
		KindImage: "image",
		KindText:  "text",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestRead(t *testing.T) {
	// Clipboard access needs a display; only exercise the real backend when
	// initialization succeeds (e.g. on a developer machine).
	if err := Init(); err != nil {
		t.Skipf("clipboard backend unavailable: %v", err)
	}
	snap := Read()
	switch snap.Kind {
	case KindImage:
		if len(snap.Image) == 0 {
			t.Error("image snapshot with no bytes")
		}
	case KindText:
		if snap.Text == "" {
			t.Error("text snapshot with empty string")
		}
	case KindEmpty:
		if len(snap.Image) != 0 || snap.Text != "" {
			t.Error("empty snapshot carrying a payload")
		}
	}
}
