package daemon

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/mahmood726-cyber/Metasprint/internal/build"
	"github.com/mahmood726-cyber/Metasprint/internal/config"
	"github.com/mahmood726-cyber/Metasprint/internal/logfields"
)

// Notifier publishes build-completed events to NATS.
type Notifier struct {
	conn    *nats.Conn
	subject string
}

// buildEvent is the wire format of one build-completed message.
type buildEvent struct {
	BuildID      string `json:"build_id"`
	StartedAt    string `json:"started_at"`
	DurationMS   int64  `json:"duration_ms"`
	FilesScanned int    `json:"files_scanned"`
	Pages        int    `json:"pages"`
	Files        int    `json:"files"`
	OutputPath   string `json:"output_path"`
	OutputSHA256 string `json:"output_sha256"`
}

// NewNotifier connects to NATS using the notify configuration.
func NewNotifier(cfg config.NotifyConfig) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("metasprint-gatewaygen"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS notifier initialized", slog.String("url", cfg.URL), logfields.Subject(cfg.Subject))
	return &Notifier{conn: conn, subject: cfg.Subject}, nil
}

// Publish emits one build-completed event. Failures are logged, not fatal:
// notification is an operational extra, never part of build correctness.
func (n *Notifier) Publish(report *build.Report) {
	event := buildEvent{
		BuildID:      report.BuildID,
		StartedAt:    report.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationMS:   report.Duration.Milliseconds(),
		FilesScanned: report.FilesScanned,
		Pages:        report.Pages,
		Files:        report.Files,
		OutputPath:   report.OutputPath,
		OutputSHA256: report.OutputSHA256,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to marshal build event", logfields.Error(err))
		return
	}
	if err := n.conn.Publish(n.subject, payload); err != nil {
		slog.Warn("Failed to publish build event", logfields.Subject(n.subject), logfields.Error(err))
		return
	}
	slog.Debug("Published build event", logfields.Subject(n.subject), logfields.BuildID(report.BuildID))
}

// Close drains and closes the NATS connection.
func (n *Notifier) Close() {
	if err := n.conn.Drain(); err != nil {
		slog.Warn("Failed to drain NATS connection", logfields.Error(err))
	}
}
