package cmd

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
	"github.com/ssargent/datagen/pkg/config"
	"github.com/ssargent/datagen/pkg/log"
	"github.com/ssargent/datagen/pkg/model"
	"github.com/ssargent/datagen/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Generator.Users = 3
	cfg.Generator.Cards = 2
	cfg.Generator.Merchants = 1
	return cfg
}

func TestInitializeConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	dataDir := filepath.Join(dir, "data")

	t.Run("creates config and data dir", func(t *testing.T) {
		cfg, created, err := initializeConfig(configPath, dataDir, false)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, dataDir, cfg.DataDir)
		assert.Len(t, cfg.Server.APIKey, 64)
		assert.FileExists(t, configPath)
		assert.DirExists(t, dataDir)
	})

	t.Run("keeps existing config", func(t *testing.T) {
		before, err := config.LoadConfig(configPath)
		require.NoError(t, err)

		_, created, err := initializeConfig(configPath, dataDir, false)
		require.NoError(t, err)
		assert.False(t, created)

		after, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, before.Server.APIKey, after.Server.APIKey)
	})

	t.Run("force rotates the key", func(t *testing.T) {
		before, err := config.LoadConfig(configPath)
		require.NoError(t, err)

		cfg, created, err := initializeConfig(configPath, dataDir, true)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, before.Server.APIKey, cfg.Server.APIKey)
	})
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds("all")
	require.NoError(t, err)
	assert.Equal(t, model.Kinds, kinds)

	kinds, err = parseKinds("Card")
	require.NoError(t, err)
	assert.Equal(t, []model.Kind{model.KindCard}, kinds)

	_, err = parseKinds("invoice")
	assert.True(t, errors.Is(err, model.ErrUnknownKind))
}

func TestGenerateAndDump(t *testing.T) {
	cfg := testConfig(t)

	result, err := generateRecords(cfg, generateOptions{Kinds: model.Kinds, Count: -1, Seed: 9, Sink: sinkLog})
	require.NoError(t, err)
	assert.Equal(t, map[model.Kind]int{model.KindUser: 3, model.KindCard: 2, model.KindMerchant: 1}, result.Records)
	assert.Positive(t, result.Bytes)

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		n, err := dumpLog(&out, cfg.RecordLogPath(), dumpOptions{Format: "text"})
		require.NoError(t, err)
		assert.Equal(t, 6, n)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 6)
		assert.True(t, strings.HasPrefix(lines[0], "0\tuser\t"))
		assert.Contains(t, lines[5], "\tmerchant\t")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		n, err := dumpLog(&out, cfg.RecordLogPath(), dumpOptions{Format: "json"})
		require.NoError(t, err)
		assert.Equal(t, 6, n)

		var total int64
		scanner := bufio.NewScanner(&out)
		for scanner.Scan() {
			var line dumpLine
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
			assert.Equal(t, total, line.Offset)
			assert.Equal(t, int(line.Size)*2, len(line.Hex))
			total += int64(17 + line.Size)
		}
		require.NoError(t, scanner.Err())
		assert.Equal(t, result.Bytes+6*17, total)
	})

	t.Run("limit and hex", func(t *testing.T) {
		var out bytes.Buffer
		n, err := dumpLog(&out, cfg.RecordLogPath(), dumpOptions{Format: "hex", Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 2)
	})

	t.Run("by kind", func(t *testing.T) {
		var out bytes.Buffer
		n, err := dumpLog(&out, cfg.RecordLogPath(), dumpOptions{Format: "hex", Kind: model.KindCard})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
			assert.Contains(t, line, "\tcard\t")
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := logStats(cfg.RecordLogPath())
		require.NoError(t, err)
		assert.Equal(t, 6, stats.TotalFrames)
		assert.Equal(t, result.Bytes, stats.PayloadBytes)
		assert.Equal(t, 3, stats.PerKind[model.KindUser])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := dumpLog(&bytes.Buffer{}, cfg.RecordLogPath(), dumpOptions{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestGenerate_Deterministic(t *testing.T) {
	var dumps []string
	for i := 0; i < 2; i++ {
		cfg := testConfig(t)
		_, err := generateRecords(cfg, generateOptions{Kinds: []model.Kind{model.KindCard}, Count: 5, Seed: 77})
		require.NoError(t, err)

		var out bytes.Buffer
		_, err = dumpLog(&out, cfg.RecordLogPath(), dumpOptions{Format: "hex"})
		require.NoError(t, err)
		dumps = append(dumps, out.String())
	}
	assert.Equal(t, dumps[0], dumps[1])
}

func TestGenerate_StoreSink(t *testing.T) {
	cfg := testConfig(t)

	result, err := generateRecords(cfg, generateOptions{Kinds: []model.Kind{model.KindUser}, Count: 4, Seed: 1, Sink: sinkStore})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Records[model.KindUser])
	assert.NoFileExists(t, cfg.RecordLogPath())

	records, err := storage.NewRecordStorage(cfg.StoragePath())
	require.NoError(t, err)
	require.NoError(t, records.Close())

	_, err = generateRecords(cfg, generateOptions{Kinds: model.Kinds, Sink: "s3"})
	assert.Error(t, err)
}

func TestEncodeDocument(t *testing.T) {
	tests := []struct {
		name    string
		kind    model.Kind
		doc     string
		wantHex string
	}{
		{
			name:    "json merchant",
			kind:    model.KindMerchant,
			doc:     `{"name":"Shop","mcc":5411,"category":"retail_outlet"}`,
			wantHex: "0453686f702315000007",
		},
		{
			name:    "yaml user",
			kind:    model.KindUser,
			doc:     "first_name: Al\nlast_name: B\nemail: a@b.c\n",
			wantHex: "02416c0142056140622e63",
		},
		{
			name:    "yaml card",
			kind:    model.KindCard,
			doc:     "type: visa\nexpiration_month: 12\nexpiration_year: 30\ncvv: 123\npan: \"4111\"\n",
			wantHex: "010c1e7b0000000434313131",
		},
		{
			name:    "empty user",
			kind:    model.KindUser,
			doc:     "",
			wantHex: "000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeDocument(tt.kind, []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantHex, hex.EncodeToString(data))
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := encodeDocument(model.KindUser, []byte("nickname: x\n"))
		assert.Error(t, err)
	})

	t.Run("oversized field", func(t *testing.T) {
		_, err := encodeDocument(model.KindMerchant, []byte("name: "+strings.Repeat("m", 300)+"\n"))
		assert.True(t, errors.Is(err, codec.ErrSizeOverflow))
	})
}

func TestEncodeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(`{"name":"Shop","mcc":5411,"category":"retail_outlet"}`))
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--data-dir", t.TempDir(),
		"encode", "merchant",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "0453686f702315000007\n", out.String())
}

func TestResolveAPIKey(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := log.L()
	log.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { log.ReplaceGlobals(prev) })

	t.Run("configured key is kept", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Server.APIKey = "mysecretkey"
		var out bytes.Buffer
		require.NoError(t, resolveAPIKey(cfg, &out))
		assert.Equal(t, "mysecretkey", cfg.Server.APIKey)
		assert.Empty(t, out.String())
	})

	t.Run("auto key stays out of the log", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Server.APIKey = "auto"
		var out bytes.Buffer
		require.NoError(t, resolveAPIKey(cfg, &out))

		key := cfg.Server.APIKey
		require.NotEqual(t, "auto", key)
		assert.Contains(t, out.String(), key)

		entries := logs.FilterMessage("no API key configured, generated one for this run").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, keyFingerprint(key), fields["api_key_fingerprint"])
		for _, v := range fields {
			assert.NotContains(t, fmt.Sprint(v), key)
		}
	})
}
