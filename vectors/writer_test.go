// Copyright 2024 The ecvectors Authors
// This file is part of the ecvectors library.
//
// The ecvectors library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ecvectors library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ecvectors library. If not, see <http://www.gnu.org/licenses/>.

package vectors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethvectors/ecvectors/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "bw6_g1_add.json", FileName("bw6", OpG1Add, false))
	assert.Equal(t, "bls12377_pairing_fail.json", FileName("bls12377", OpPairing, true))
}

func TestWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := OpenWriter(dir)
	require.NoError(t, err, "OpenWriter()")

	suite := Suite{
		Op: OpG1Mul,
		Success: []Success{
			{Input: Hex{0x00, 0xab}, Expected: Hex{0x01}, Name: "g1_mul_1"},
		},
		Failure: []Failure{
			{Input: Hex{}, ExpectedError: TagInvalidLength, Name: "invalid_input_length_empty"},
		},
	}
	stats, err := w.Write("fake", suite)
	require.NoError(t, err, "Write()")
	require.Len(t, stats, 2)
	assert.Equal(t, filepath.Join(dir, "fake_g1_mul.json"), stats[0].Path)
	assert.Equal(t, 1, stats[0].Records)
	assert.Equal(t, filepath.Join(dir, "fake_g1_mul_fail.json"), stats[1].Path)

	blob, err := os.ReadFile(stats[0].Path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"input":"00ab","expected":"01","name":"g1_mul_1"}]`, string(blob))
	assert.EqualValues(t, len(blob), stats[0].Size)

	blob, err = os.ReadFile(stats[1].Path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"input":"","expected_error":"invalid input length","name":"invalid_input_length_empty"}]`, string(blob))

	var decoded []Success
	blob, err = os.ReadFile(stats[0].Path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, suite.Success, decoded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".tmp", filepath.Ext(e.Name()), "leftover temp file %s", e.Name())
	}
	require.NoError(t, w.Close(), "Close()")
}

func TestWriterLocked(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir)
	require.NoError(t, err)

	_, err = OpenWriter(dir)
	require.ErrorIs(t, err, ErrOutputLocked)

	require.NoError(t, w.Close())
	assert.FileExists(t, filepath.Join(dir, lockFileName), "lock file kept after Close()")
	w, err = OpenWriter(dir)
	require.NoError(t, err, "OpenWriter() after Close()")

	_, err = OpenWriter(dir)
	require.ErrorIs(t, err, ErrOutputLocked, "relocked over the kept lock file")
	require.NoError(t, w.Close())
}

func TestWriterReplacesFile(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, FileName("fake", OpPairing, false))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	_, err = w.Write("fake", Suite{Op: OpPairing})
	require.NoError(t, err)

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blob), "empty suite")
}

func TestHexText(t *testing.T) {
	text, err := Hex{0x00, 0xab}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "00ab", string(text))

	var h Hex
	require.NoError(t, h.UnmarshalText([]byte("0x00ab")))
	assert.Equal(t, Hex{0x00, 0xab}, h)
	require.NoError(t, h.UnmarshalText([]byte("01")))
	assert.Equal(t, Hex{0x01}, h)
	assert.Error(t, h.UnmarshalText([]byte("0x0")))
}

// assertNoTemp fails if any staged temp file is left in dir.
func assertNoTemp(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		if !e.IsDir() {
			assert.NotEqual(t, tempSuffix, filepath.Ext(e.Name()), "leftover temp file %s", e.Name())
		}
	}
}

func TestWriterStagingFailureKeepsPair(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	success := filepath.Join(dir, FileName("fake", OpG2Add, false))
	failure := filepath.Join(dir, FileName("fake", OpG2Add, true))
	require.NoError(t, os.WriteFile(success, []byte("old success"), 0644))
	require.NoError(t, os.WriteFile(failure, []byte("old failure"), 0644))

	// A directory squatting on the failure temp path makes staging fail.
	blocker := failure + tempSuffix
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "x"), 0755))

	suite := Suite{
		Op:      OpG2Add,
		Success: []Success{{Input: Hex{0x01}, Expected: Hex{0x02}, Name: "g2_add_1"}},
	}
	_, err = w.Write("fake", suite)
	require.Error(t, err)

	blob, err := os.ReadFile(success)
	require.NoError(t, err)
	assert.Equal(t, "old success", string(blob), "success file replaced before failure file was staged")
	blob, err = os.ReadFile(failure)
	require.NoError(t, err)
	assert.Equal(t, "old failure", string(blob))
	assert.NoFileExists(t, success+tempSuffix)
	assert.DirExists(t, blocker)
}

func TestWriterRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	// A non-empty directory at the failure path cannot be renamed over.
	failure := filepath.Join(dir, FileName("fake", OpG1MultiExp, true))
	require.NoError(t, os.MkdirAll(filepath.Join(failure, "x"), 0755))

	_, err = w.Write("fake", Suite{Op: OpG1MultiExp})
	require.ErrorContains(t, err, "failed to rename")
	assertNoTemp(t, dir)
	assert.NoFileExists(t, failure+tempSuffix)
}

func TestRemoveTempLogsFailure(t *testing.T) {
	var records []*log.Record
	prev := log.Root().GetHandler()
	log.Root().SetHandler(log.FuncHandler(func(r *log.Record) error {
		records = append(records, r)
		return nil
	}))
	defer log.Root().SetHandler(prev)

	dir := t.TempDir()
	removeTemp(filepath.Join(dir, "missing"+tempSuffix))
	assert.Empty(t, records, "missing temp file is not worth a warning")

	stale := filepath.Join(dir, "stale"+tempSuffix)
	require.NoError(t, os.WriteFile(stale, nil, 0644))
	removeTemp(stale)
	require.Len(t, records, 1)
	assert.Equal(t, "Removed leftover temporary vector file", records[0].Msg)
	assert.NoFileExists(t, stale)

	busy := filepath.Join(dir, "busy"+tempSuffix)
	require.NoError(t, os.MkdirAll(filepath.Join(busy, "x"), 0755))
	removeTemp(busy)
	require.Len(t, records, 2)
	assert.Equal(t, "Failed to remove temporary vector file", records[1].Msg)
	assert.Contains(t, records[1].Ctx, "err")
}

func TestSyncDir(t *testing.T) {
	require.NoError(t, syncDir(t.TempDir()))
	assert.Error(t, syncDir(filepath.Join(t.TempDir(), "missing")))
}
