package clipboard

import (
	"golang.design/x/clipboard"
)

// Kind classifies what a poll found on the clipboard.
type Kind int

const (
	KindEmpty Kind = iota
	KindImage
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "empty"
	}
}

// Snapshot is one observation of the clipboard. Image payloads are
// PNG-encoded bytes as delivered by the OS clipboard backend.
type Snapshot struct {
	Kind  Kind
	Image []byte
	Text  string
}

// Init must be called once before Read. It fails when no clipboard backend
// is available (e.g. headless X11 without xclip support compiled in).
func Init() error {
	return clipboard.Init()
}

// Read returns the current clipboard content. Image takes precedence when
// both an image and text are present. A transiently unavailable clipboard
// yields an empty snapshot rather than an error, so polling can continue.
func Read() Snapshot {
	if data := clipboard.Read(clipboard.FmtImage); len(data) > 0 {
		return Snapshot{Kind: KindImage, Image: data}
	}
	if data := clipboard.Read(clipboard.FmtText); len(data) > 0 {
		return Snapshot{Kind: KindText, Text: string(data)}
	}
	return Snapshot{Kind: KindEmpty}
}
