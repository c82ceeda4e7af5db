package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ffbuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	t.Run("standard error", func(t *testing.T) {
		entries := logger.CollectErrorEntries(errors.New("simple error"))
		assert.Equal(t, []logger.ErrorEntry{{Message: "simple error"}}, entries)
	})

	t.Run("zerr chain ends at standard error", func(t *testing.T) {
		err := zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer")

		entries := logger.CollectErrorEntries(err)

		messages := make([]string, len(entries))
		for i, e := range entries {
			messages[i] = e.Message
		}
		assert.Equal(t, []string{"outer layer", "middle layer", "root cause"}, messages)
	})

	t.Run("metadata is collected per link", func(t *testing.T) {
		inner := zerr.With(zerr.New("target not produced"), "target", "_output/FF_1993_Comparison.png")
		outer := zerr.With(zerr.Wrap(inner, "task failed"), "task", "calc_Fama_French_1993_factors")

		entries := logger.CollectErrorEntries(outer)

		assert.Len(t, entries, 2)
		assert.Equal(t, "calc_Fama_French_1993_factors", entries[0].Metadata["task"])
		assert.Equal(t, "_output/FF_1993_Comparison.png", entries[1].Metadata["target"])
	})

	t.Run("metadata-only links fold into their cause", func(t *testing.T) {
		err := zerr.With(zerr.Wrap(errors.New("exit status 2"), ""), "exit_code", 2)
		err = zerr.With(zerr.Wrap(zerr.Wrap(err, "command failed"), ""), "task", "pull_CRSP_Compustat")

		entries := logger.CollectErrorEntries(err)

		assert.Equal(t, []logger.ErrorEntry{
			{Message: "command failed", Metadata: map[string]any{"task": "pull_CRSP_Compustat"}},
			{Message: "exit status 2", Metadata: map[string]any{"exit_code": 2}},
		}, entries)
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Empty(t, logger.CollectErrorEntries(nil))
	})
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "cause chain",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{{
				Message:  "error",
				Metadata: map[string]any{"zebra": "z", "alpha": "a"},
			}},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name: "metadata on cause",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause", Metadata: map[string]any{"exit_code": 2}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause\n      exit_code: 2",
		},
		{
			name:    "multiline message",
			entries: []logger.ErrorEntry{{Message: "line1\nline2"}},
			want:    "Error: line1\n       line2",
		},
		{
			name:    "empty entries",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
