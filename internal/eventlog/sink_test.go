package eventlog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/scriptassoc/internal/eventlog"
)

func TestSinks(t *testing.T) {
	// --- Arrange ---
	var logs, printed bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := eventlog.Multi{
		&eventlog.SlogSink{Logger: logger},
		&eventlog.WriterSink{W: &printed},
	}

	// --- Act ---
	sink.LogStatus("Following script(s) completed execution: 'a.sh : T'")
	sink.LogFailure("Script Error", "Cannot execute script 'b.sh'")

	// --- Assert ---
	assert.Equal(t,
		"Following script(s) completed execution: 'a.sh : T'\nScript Error: Cannot execute script 'b.sh'\n",
		printed.String())
	assert.Contains(t, logs.String(), "level=INFO")
	assert.Contains(t, logs.String(), `level=ERROR msg="Script Error." detail="Cannot execute script 'b.sh'"`)
}
