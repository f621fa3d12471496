package fingerprint

import (
	"strings"
	"testing"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/clipboard"
)

func TestOfImageDeterministic(t *testing.T) {
	a := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{0x89, 'P', 'N', 'G', 1, 2, 3}}
	b := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{0x89, 'P', 'N', 'G', 1, 2, 3}}

	if Of(a) != Of(b) {
		t.Errorf("identical image payloads produced different fingerprints: %s vs %s", Of(a), Of(b))
	}
	if !strings.HasPrefix(Of(a), "img:") {
		t.Errorf("image fingerprint should carry the img: prefix, got %q", Of(a))
	}
	if len(Of(a)) != len("img:")+32 {
		t.Errorf("expected 32 hex chars after the prefix, got %q", Of(a))
	}
}

func TestOfImageDiffers(t *testing.T) {
	a := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{1, 2, 3}}
	b := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{1, 2, 4}}
	if Of(a) == Of(b) {
		t.Error("different image payloads produced equal fingerprints")
	}
}

func TestOfText(t *testing.T) {
	snap := clipboard.Snapshot{Kind: clipboard.KindText, Text: "a cat, watercolor"}
	if got := Of(snap); got != "txt:a cat, watercolor" {
		t.Errorf("text fingerprint should be the prefixed literal string, got %q", got)
	}
}

func TestOfEmpty(t *testing.T) {
	if got := Of(clipboard.Snapshot{Kind: clipboard.KindEmpty}); got != "" {
		t.Errorf("empty snapshot should fingerprint to \"\", got %q", got)
	}
}

func TestOfNoCrossKindCollision(t *testing.T) {
	img := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{1, 2, 3}}
	// Text that happens to equal the image's digest must not be a duplicate
	text := clipboard.Snapshot{Kind: clipboard.KindText, Text: ImageDigest(img.Image)}
	if Of(img) == Of(text) {
		t.Errorf("text equal to an image digest collided: %q", Of(img))
	}
}

func TestImageDigest(t *testing.T) {
	if got := ImageDigest([]byte{1, 2, 3}); len(got) != 32 {
		t.Errorf("expected 32 hex chars, got %q", got)
	}
	img := clipboard.Snapshot{Kind: clipboard.KindImage, Image: []byte{1, 2, 3}}
	if Of(img) != "img:"+ImageDigest(img.Image) {
		t.Errorf("Of and ImageDigest disagree: %q vs %q", Of(img), ImageDigest(img.Image))
	}
}

func TestShort(t *testing.T) {
	if got := Short("img:0123456789abcdef"); got != "img:01234567..." {
		t.Errorf("Short() = %q", got)
	}
	if got := Short("txt:abc"); got != "txt:abc" {
		t.Errorf("Short() should pass short values through, got %q", got)
	}
}
