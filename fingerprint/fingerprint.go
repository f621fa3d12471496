// Package fingerprint derives a comparable identity from clipboard content,
// used to suppress duplicate submissions.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/clipboard"
)

// Fingerprints are kind-prefixed so a text payload can never collide with
// an image digest (a pasted hex string equal to the previous image's digest
// must still count as new content).
const (
	imagePrefix = "img:"
	textPrefix  = "txt:"
)

// Of returns the fingerprint of a snapshot: the MD5 hex digest of the image
// bytes, the literal string for text (each under a kind prefix), and "" for
// an empty snapshot. Identical payloads always produce equal fingerprints.
func Of(snap clipboard.Snapshot) string {
	switch snap.Kind {
	case clipboard.KindImage:
		return imagePrefix + ImageDigest(snap.Image)
	case clipboard.KindText:
		return textPrefix + snap.Text
	default:
		return ""
	}
}

// ImageDigest returns the bare 32-char hex content digest of image bytes.
// Also used to derive stable filenames for persisted clipboard images.
func ImageDigest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Short renders a fingerprint prefix for log lines: fingerprints can be
// whole clipboard texts, which must not flood the log.
func Short(fp string) string {
	const max = 12
	if len(fp) <= max {
		return fp
	}
	return fp[:max] + "..."
}
