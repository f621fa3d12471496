// Package watcher drives the poll cycle: read the clipboard, suppress
// duplicates, persist images, inject into the workflow template and submit
// to ComfyUI.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/clipboard"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/comfy"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/config"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/fingerprint"
	"github.com/kastelan/ComfyUI-Clipboard-Workflow-Automator/workflow"
)

// Reader yields clipboard snapshots.
type Reader interface {
	Read() clipboard.Snapshot
}

// Submitter queues a workflow for remote execution.
type Submitter interface {
	SubmitPrompt(ctx context.Context, graph *workflow.Graph) (*comfy.QueueResponse, error)
}

// ErrEmptyClipboard is returned by RunOnce when there is nothing to submit.
var ErrEmptyClipboard = errors.New("clipboard holds no image or text")

// Loop is the single-threaded clipboard watcher. Each cycle runs to
// completion before the next tick; the only state carried across cycles is
// the fingerprint of the last successfully dispatched content.
type Loop struct {
	cfg       *config.Config
	reader    Reader
	submitter Submitter
	last      string
}

func New(cfg *config.Config, reader Reader, submitter Submitter) *Loop {
	return &Loop{
		cfg:       cfg,
		reader:    reader,
		submitter: submitter,
	}
}

// Run polls the clipboard at the configured interval until ctx is
// cancelled. A malformed workflow template refuses to start; per-cycle
// failures are logged and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	// Fail fast on a broken template rather than on the first clipboard hit.
	if _, err := workflow.Load(l.cfg.WorkflowTemplate); err != nil {
		return err
	}
	if err := os.MkdirAll(l.cfg.InputDir(), 0755); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}

	log.Printf("Clipboard monitor started (poll every %v). Waiting for new content...", l.cfg.PollInterval)

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Clipboard monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			l.cycle(ctx)
		}
	}
}

// cycle runs one poll iteration.
func (l *Loop) cycle(ctx context.Context) {
	snap := l.reader.Read()
	if snap.Kind == clipboard.KindEmpty {
		// An emptied clipboard resets dedupe so re-copying the same
		// content triggers a new run.
		if l.last != "" {
			log.Printf("Clipboard is empty, resetting last fingerprint")
			l.last = ""
		}
		return
	}

	fp := fingerprint.Of(snap)
	if fp == l.last {
		return
	}

	log.Printf("New %s content detected (fingerprint: %s). Processing.", snap.Kind, fingerprint.Short(fp))

	ack, err := l.process(ctx, snap, fp)
	if err != nil {
		if errors.Is(err, workflow.ErrNodeNotFound) {
			// Retrying cannot succeed until the template changes, so the
			// content counts as consumed.
			log.Printf("Warning: %v; skipping submission", err)
			l.last = fp
			return
		}
		// Load or dispatch failure: the fingerprint stays unchanged so the
		// same content is retried on the next poll.
		log.Printf("Error while processing workflow: %v", err)
		return
	}

	l.last = fp
	log.Printf("Prompt queued: id=%s number=%d", ack.PromptID, ack.Number)
	if len(ack.NodeErrors) > 0 {
		log.Printf("Warning: server reported node errors: %v", ack.NodeErrors)
	}
}

// RunOnce submits the current clipboard content a single time, ignoring the
// dedupe state. Used by the one-shot send command.
func (l *Loop) RunOnce(ctx context.Context) (*comfy.QueueResponse, error) {
	snap := l.reader.Read()
	if snap.Kind == clipboard.KindEmpty {
		return nil, ErrEmptyClipboard
	}
	return l.process(ctx, snap, fingerprint.Of(snap))
}

// process runs one snapshot through persist → load → locate → inject →
// dispatch.
func (l *Loop) process(ctx context.Context, snap clipboard.Snapshot, fp string) (*comfy.QueueResponse, error) {
	var title, field string
	var value any

	switch snap.Kind {
	case clipboard.KindImage:
		relPath, err := l.saveImage(snap.Image)
		if err != nil {
			return nil, err
		}
		title, field, value = l.cfg.ImageNodeTitle, "image", relPath
	case clipboard.KindText:
		title, field, value = l.cfg.TextNodeTitle, "text", snap.Text
	default:
		return nil, ErrEmptyClipboard
	}

	// The template is re-read per submission so edits between runs are
	// picked up without a restart.
	graph, err := workflow.Load(l.cfg.WorkflowTemplate)
	if err != nil {
		return nil, err
	}

	nodeID, err := graph.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	if snap.Kind == clipboard.KindImage {
		if node, ok := graph.Node(nodeID); ok && node.ClassType != "LoadImage" {
			return nil, fmt.Errorf("%w: node %s titled %q is a %s, not a LoadImage node",
				workflow.ErrNodeNotFound, nodeID, title, node.ClassType)
		}
	}
	if err := graph.SetInput(nodeID, field, value); err != nil {
		return nil, err
	}
	log.Printf("Updated node %s (%q): %s = %v", nodeID, title, field, value)

	sctx, cancel := context.WithTimeout(ctx, l.cfg.SubmitTimeout)
	defer cancel()
	return l.submitter.SubmitPrompt(sctx, graph)
}

// saveImage persists PNG bytes into the ComfyUI input directory and returns
// the forward-slash path ComfyUI resolves relative to its input root.
// Written via temp file + rename so an interrupt never leaves a truncated
// image behind. The name is derived from the content digest, so a retry of
// the same image (e.g. while the server is down) reuses the existing file
// instead of piling up one copy per poll.
func (l *Loop) saveImage(data []byte) (string, error) {
	dir := l.cfg.InputDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create input directory: %w", err)
	}

	name := fmt.Sprintf("clipboard_%s.png", fingerprint.ImageDigest(data))
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		return path.Join(l.cfg.InputSubdir, name), nil
	}

	tmp, err := os.CreateTemp(dir, ".clipboard-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to flush image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize image: %w", err)
	}
	log.Printf("Image saved to: %s", filepath.Join(dir, name))

	return path.Join(l.cfg.InputSubdir, name), nil
}
