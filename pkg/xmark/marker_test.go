package xmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempLog 创建测试用日志文件并返回路径。
func writeTempLog(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0o600))
	return path
}

// =============================================================================
// 中缀辅助函数
// =============================================================================

func TestArchivedInfixHelpers(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		has      bool
		inserted string
		stripped string
	}{
		{
			name:     "普通日志文件",
			path:     "/logs/app 2024-01-02--03-04-05-006.log",
			has:      false,
			inserted: "/logs/app 2024-01-02--03-04-05-006.archived.log",
			stripped: "/logs/app 2024-01-02--03-04-05-006.log",
		},
		{
			name:     "已带中缀",
			path:     "/logs/app 2024-01-02--03-04-05-006.archived.log",
			has:      true,
			inserted: "/logs/app 2024-01-02--03-04-05-006.archived.log",
			stripped: "/logs/app 2024-01-02--03-04-05-006.log",
		},
		{
			name:     "无扩展名",
			path:     "/logs/plain",
			has:      false,
			inserted: "/logs/plain.archived",
			stripped: "/logs/plain",
		},
		{
			name:     "文件名本身含 archived 字样",
			path:     "/logs/archived-report.log",
			has:      false,
			inserted: "/logs/archived-report.archived.log",
			stripped: "/logs/archived-report.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.has, HasArchivedInfix(tt.path))
			assert.Equal(t, tt.inserted, InsertArchivedInfix(tt.path))
			assert.Equal(t, tt.stripped, StripArchivedInfix(tt.path))
		})
	}
}

// =============================================================================
// FilenameMarker
// =============================================================================

func TestFilenameMarkerRoundTrip(t *testing.T) {
	m := NewFilenameMarker()
	path := writeTempLog(t, "app 2024-01-02--03-04-05-006.log")

	assert.False(t, m.IsArchived(path))

	archived, err := m.SetArchived(path, true)
	require.NoError(t, err)
	assert.True(t, m.IsArchived(archived))
	assert.NotEqual(t, path, archived)
	assert.Equal(t, filepath.Dir(path), filepath.Dir(archived), "重命名必须保持目录不变")

	// 原路径不再存在
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// 取消归档回到原名
	restored, err := m.SetArchived(archived, false)
	require.NoError(t, err)
	assert.Equal(t, path, restored)
	assert.False(t, m.IsArchived(restored))
}

func TestFilenameMarkerIdempotent(t *testing.T) {
	m := NewFilenameMarker()
	path := writeTempLog(t, "app 2024-01-02--03-04-05-006.log")

	first, err := m.SetArchived(path, true)
	require.NoError(t, err)

	// 归档两次等价于归档一次
	second, err := m.SetArchived(first, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, m.IsArchived(second))
}

func TestFilenameMarkerClobbersStaleDestination(t *testing.T) {
	m := NewFilenameMarker()
	path := writeTempLog(t, "app 2024-01-02--03-04-05-006.log")

	// 在目标名下预置一个陈旧文件
	stale := InsertArchivedInfix(path)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))

	archived, err := m.SetArchived(path, true)
	require.NoError(t, err)
	assert.Equal(t, stale, archived)

	// 内容来自原文件，陈旧内容被替换
	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestFilenameMarkerEmptyPath(t *testing.T) {
	m := NewFilenameMarker()
	_, err := m.SetArchived("", true)
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.False(t, m.IsArchived(""))
}

// =============================================================================
// AttributeMarker（依赖文件系统 xattr 支持，不支持时跳过）
// =============================================================================

func TestAttributeMarkerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if !xattrSupported(dir) {
		t.Skip("当前文件系统不支持扩展属性")
	}

	m := NewAttributeMarker()
	path := filepath.Join(dir, "app 2024-01-02--03-04-05-006.log")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0o600))

	assert.False(t, m.IsArchived(path))

	same, err := m.SetArchived(path, true)
	require.NoError(t, err)
	assert.Equal(t, path, same, "属性实现不改变路径")
	assert.True(t, m.IsArchived(path))

	// 幂等
	_, err = m.SetArchived(path, true)
	require.NoError(t, err)
	assert.True(t, m.IsArchived(path))

	_, err = m.SetArchived(path, false)
	require.NoError(t, err)
	assert.False(t, m.IsArchived(path))

	// 移除不存在的属性同样成功
	_, err = m.SetArchived(path, false)
	require.NoError(t, err)
}

func TestAttributeMarkerMissingFile(t *testing.T) {
	m := NewAttributeMarker()
	missing := filepath.Join(t.TempDir(), "missing.log")

	assert.False(t, m.IsArchived(missing))
	_, err := m.SetArchived(missing, true)
	assert.Error(t, err)
}

// =============================================================================
// Detect
// =============================================================================

func TestDetectReturnsUsableMarker(t *testing.T) {
	dir := t.TempDir()
	m := Detect(dir)
	require.NotNil(t, m)

	path := filepath.Join(dir, "app 2024-01-02--03-04-05-006.log")
	require.NoError(t, os.WriteFile(path, []byte("line\n"), 0o600))

	// 无论选择了哪种实现，往返语义一致
	archived, err := m.SetArchived(path, true)
	require.NoError(t, err)
	assert.True(t, m.IsArchived(archived))

	restored, err := m.SetArchived(archived, false)
	require.NoError(t, err)
	assert.False(t, m.IsArchived(restored))
}

func TestDetectEmptyDirFallsBack(t *testing.T) {
	// 空目录无法探测，必须降级到文件名实现
	m := Detect("")
	require.NotNil(t, m)
	_, ok := m.(filenameMarker)
	assert.True(t, ok)
}
