package logtrace

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestInitLogger(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	})

	t.Run("json lines", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(&buf, "warn")
		log.Info().Msg("dropped")
		log.Warn().Str("resource", "security").Msg("kept")

		line := bytes.TrimSpace(buf.Bytes())
		require.True(t, gjson.ValidBytes(line), "not json: %s", line)
		assert.Equal(t, "warn", gjson.GetBytes(line, "level").String())
		assert.Equal(t, "kept", gjson.GetBytes(line, "message").String())
		assert.Equal(t, "security", gjson.GetBytes(line, "resource").String())
		assert.True(t, gjson.GetBytes(line, "time").Exists())
	})

	t.Run("console lines", func(t *testing.T) {
		var buf bytes.Buffer
		InitConsoleLogger(&buf, "debug")
		log.Debug().Str("resource", "price").Msg("listing")

		out := buf.String()
		assert.False(t, gjson.Valid(out))
		assert.Contains(t, out, "DBG")
		assert.Contains(t, out, "listing")
		assert.Contains(t, out, "resource=price")
	})

	t.Run("unknown level", func(t *testing.T) {
		var buf bytes.Buffer
		InitLogger(&buf, "chatty")
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})
}
