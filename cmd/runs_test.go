package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Axewc/reverse-geocoding/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	finished := started.Add(2 * time.Minute)

	runs := []store.Run{
		{
			ID:         "aaaabbbb-cccc-dddd-eeee-ffff00001111",
			Command:    "enhance",
			InputFile:  "addresses.csv",
			OutputFile: "out.csv",
			Total:      10,
			Failed:     1,
			StartedAt:  started,
			FinishedAt: &finished,
		},
		{
			ID:        "11112222-3333-4444-5555-666677778888",
			Command:   "reverse",
			InputFile: "coords.txt",
			StartedAt: started,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "aaaabbbb")
	assert.NotContains(t, out, "cccc-dddd", "ids are shortened")
	assert.Contains(t, out, "enhance")
	assert.Contains(t, out, "out.csv")
	assert.Contains(t, out, "finished")
	assert.Contains(t, out, "running")
}
