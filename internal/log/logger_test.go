package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug", Service: "test"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("dblp")
	l.Debug().Int("year", 2024).Msg("fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "dblp", entry["component"])
	assert.Equal(t, "fetched", entry["message"])
	assert.EqualValues(t, 2024, entry["year"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "warn"})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConcurrentWritesToPlainBuffer(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			l := WithComponent("csrankings")
			for j := 0; j < 50; j++ {
				l.Info().Int("worker", worker).Msg("downloaded")
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 400)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
	}
}
