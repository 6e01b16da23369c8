package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/neardup"
	"github.com/hupe1980/neardup/codec"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig([]string{"corpus.txt"}, noEnv, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "corpus.txt", cfg.Input)
	assert.Equal(t, "-", cfg.Output)
	assert.Equal(t, neardup.DefaultConfig(), cfg.Index)
	assert.Equal(t, "full", cfg.Order)
	assert.Equal(t, -1, cfg.IDColumn)
}

func TestLoadConfig_EnvAndFlags(t *testing.T) {
	env := envMap(map[string]string{
		"NEARDUP_INPUT":     "s3://bucket/tweets.jsonl",
		"NEARDUP_K":         "64",
		"NEARDUP_THRESHOLD": "0.8",
		"NEARDUP_SEED":      "7",
		"NEARDUP_FOLD":      "true",
	})

	cfg, err := loadConfig([]string{"-k", "32", "-order", "streaming"}, env, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "s3://bucket/tweets.jsonl", cfg.Input)
	assert.Equal(t, 32, cfg.Index.NumPermutations, "flag overrides env")
	assert.InDelta(t, 0.8, cfg.Index.Threshold, 0)
	assert.Equal(t, uint64(7), cfg.Index.Seed)
	assert.True(t, cfg.Index.CaseFolding)
	assert.Equal(t, "streaming", cfg.Order)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := loadConfig(nil, noEnv, &bytes.Buffer{})
	require.Error(t, err)

	_, err = loadConfig([]string{"x"}, envMap(map[string]string{"NEARDUP_K": "many"}), &bytes.Buffer{})
	require.ErrorContains(t, err, "NEARDUP_K")

	_, err = loadConfig([]string{"-report", "pairs", "x"}, noEnv, &bytes.Buffer{})
	require.Error(t, err)

	_, err = loadConfig([]string{"-nope", "x"}, noEnv, &bytes.Buffer{})
	require.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "lines", formatOf("corpus.txt"))
	assert.Equal(t, "csv", formatOf("corpus.csv.gz"))
	assert.Equal(t, "tsv", formatOf("corpus.tsv"))
	assert.Equal(t, "jsonl", formatOf("tweets.jsonl.zst"))
	assert.Equal(t, "lines", formatOf("README"))
}

func TestLocation(t *testing.T) {
	cfg := &config{}

	_, name, err := location(t.Context(), cfg, "data/corpus.txt")
	require.NoError(t, err)
	assert.Equal(t, "corpus.txt", name)

	_, name, err = location(t.Context(), cfg, "file:///tmp/corpus.txt")
	require.NoError(t, err)
	assert.Equal(t, "corpus.txt", name)

	_, _, err = location(t.Context(), cfg, "s3://bucket")
	require.Error(t, err)

	_, _, err = location(t.Context(), cfg, "ftp://host/file")
	require.Error(t, err)
}

const corpus = "the quick brown fox\ncompletely unrelated sentence here\nthe quick brown fox\n"

func TestRun_LinesToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	out := filepath.Join(dir, "out", "report.jsonl")
	require.NoError(t, os.WriteFile(in, []byte(corpus), 0o600))

	var stdout, stderr bytes.Buffer
	err := run(t.Context(), []string{"-k", "16", "-log-level", "error", "-output", out, in}, noEnv, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.Equal(t, "Final Count: 3\n", stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var got []candidateLine
	for _, l := range lines {
		var cl candidateLine
		require.NoError(t, codec.JSON{}.Unmarshal([]byte(l), &cl))
		got = append(got, cl)
	}
	assert.Equal(t, []candidateLine{
		{ID: 0, Candidates: []uint64{2}},
		{ID: 1, Candidates: []uint64{}},
		{ID: 2, Candidates: []uint64{0}},
	}, got)
}

func TestRun_GzipJSONLGroupsToStdout(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tweets.jsonl.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"id_str":"10","text":"the quick brown fox"}
{"id_str":"11","text":"completely unrelated sentence here"}
{"id_str":"12","text":"the quick brown fox"}
`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o600))

	var stdout, stderr bytes.Buffer
	err = run(t.Context(), []string{"-k", "16", "-id-field", "id_str", "-report", "groups", "-log-format", "json", in}, noEnv, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	assert.JSONEq(t, `{"group":[10,12]}`, strings.TrimSpace(stdout.String()))
	assert.Contains(t, stderr.String(), "Final Count: 3")
	assert.Contains(t, stderr.String(), `"msg":"ingest completed"`)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(in, []byte(corpus), 0o600))

	var out bytes.Buffer
	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{filepath.Join(dir, "missing.txt")}},
		{"bad codec", []string{"-codec", "xml", in}},
		{"bad order", []string{"-order", "random", in}},
		{"bad threshold", []string{"-threshold", "2", in}},
		{"bad format", []string{"-format", "parquet", in}},
		{"bad log level", []string{"-log-level", "loud", in}},
		{"bad log format", []string{"-log-format", "xml", in}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t.Context(), tt.args, noEnv, &out, &out)
			require.Error(t, err)
		})
	}
}
