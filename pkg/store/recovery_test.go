package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/datagen/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestRecover_MissingFile(t *testing.T) {
	result, err := Recover(filepath.Join(t.TempDir(), "missing.log"))
	require.NoError(t, err)
	assert.Zero(t, result.FramesValidated)
	assert.False(t, result.Truncated())
}

func TestRecover_CleanLog(t *testing.T) {
	filePath, _ := writeTestLog(t, testUser, testUser)

	result, err := Recover(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.FramesValidated)
	assert.False(t, result.Truncated())
	assert.Equal(t, int64(56), result.FileSizeAfter)
}

func TestRecover_TornHeader(t *testing.T) {
	filePath, _ := writeTestLog(t, testUser)
	appendBytes(t, filePath, []byte{1, 2, 3, 4, 5})

	result, err := Recover(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.FramesValidated)
	assert.Equal(t, int64(5), result.BytesTruncated)
	assert.Equal(t, int64(28), result.FileSizeAfter)

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(28), info.Size())
}

func TestRecover_TornPayload(t *testing.T) {
	filePath, _ := writeTestLog(t, testUser, testUser)

	// cut the second frame halfway through its payload
	require.NoError(t, os.Truncate(filePath, 28+FrameHeaderSize+4))

	result, err := Recover(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.FramesValidated)
	assert.Equal(t, int64(28), result.FileSizeAfter)
}

func TestRecover_CorruptFirstFrame(t *testing.T) {
	filePath, _ := writeTestLog(t, testUser)

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	data[FrameHeaderSize] ^= 0xff
	require.NoError(t, os.WriteFile(filePath, data, 0600))

	result, err := Recover(filePath)
	require.NoError(t, err)
	assert.Zero(t, result.FramesValidated)
	assert.Zero(t, result.FileSizeAfter)
}

func TestRecover_WriterAppendsAfterRecovery(t *testing.T) {
	filePath, _ := writeTestLog(t, testUser)
	appendBytes(t, filePath, []byte{0xde, 0xad})

	_, err := Recover(filePath)
	require.NoError(t, err)

	writer, err := NewLogWriter(LogWriterConfig{FilePath: filePath, BufferSize: 4096})
	require.NoError(t, err)
	offset, err := writer.Append(model.Merchant{Name: "Shop", MCC: 5411, Category: model.CategoryRetailOutlet})
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	assert.Equal(t, int64(28), offset)

	reader, err := NewLogReader(LogReaderConfig{FilePath: filePath})
	require.NoError(t, err)
	defer reader.Close()

	var kinds []model.Kind
	it := reader.Iterator()
	for it.Next() {
		kinds = append(kinds, it.Frame().Kind)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []model.Kind{model.KindUser, model.KindMerchant}, kinds)
}
