package xcatalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/logkit/pkg/xmark"
)

// newTestCatalog 创建使用文件名标记的测试编目器。
// 统一使用 FilenameMarker 使测试不依赖文件系统 xattr 支持。
func newTestCatalog(t *testing.T, appID string) *Catalog {
	t.Helper()
	c, err := New(t.TempDir(), appID, WithMarker(xmark.NewFilenameMarker()))
	require.NoError(t, err)
	return c
}

// touch 在目录中创建指定名称和内容大小的文件。
func touch(t *testing.T, dir, name string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o600))
}

// =============================================================================
// 构造校验
// =============================================================================

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		appID   string
		wantErr error
	}{
		{"空目录", "", "app", ErrEmptyDir},
		{"空 appID", "/tmp", "", ErrEmptyAppID},
		{"appID 含斜杠", "/tmp", "a/b", ErrInvalidAppID},
		{"appID 含反斜杠", "/tmp", "a\\b", ErrInvalidAppID},
		{"appID 含空字节", "/tmp", "a\x00b", ErrInvalidAppID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dir, tt.appID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	c, err := New(dir, "app")
	require.NoError(t, err)
	assert.Equal(t, dir, c.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// =============================================================================
// 枚举
// =============================================================================

func TestListCandidatesFiltering(t *testing.T) {
	c := newTestCatalog(t, "myapp")
	ts := FormatTimestamp(time.Now())

	touch(t, c.Dir(), "myapp "+ts+".log", 1)
	touch(t, c.Dir(), "myapp "+ts+".archived.log", 1) // 归档文件同样是候选
	touch(t, c.Dir(), "otherapp "+ts+".log", 1)       // 其他应用
	touch(t, c.Dir(), "myapp-suffix "+ts+".log", 1)   // 前缀必须精确到 "<appID> "
	touch(t, c.Dir(), "myapp "+ts+".txt", 1)          // 扩展名不符
	touch(t, c.Dir(), "unrelated.log", 1)
	require.NoError(t, os.Mkdir(filepath.Join(c.Dir(), "myapp sub.log"), 0o750)) // 目录跳过

	names, err := c.ListCandidates()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"myapp " + ts + ".log",
		"myapp " + ts + ".archived.log",
	}, names)
}

// =============================================================================
// 排序
// =============================================================================

func TestRecordsSortedNewestFirst(t *testing.T) {
	c := newTestCatalog(t, "app")

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	oldest := "app " + FormatTimestamp(base) + ".log"
	middle := "app " + FormatTimestamp(base.Add(time.Second)) + ".log"
	newest := "app " + FormatTimestamp(base.Add(2*time.Second)) + ".log"

	// 创建顺序与时间戳顺序故意不一致
	touch(t, c.Dir(), middle, 1)
	touch(t, c.Dir(), oldest, 1)
	touch(t, c.Dir(), newest, 1)

	records, err := c.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, newest, records[0].Name())
	assert.Equal(t, middle, records[1].Name())
	assert.Equal(t, oldest, records[2].Name())
}

func TestRecordsMalformedTimestampFallsBackToCreationTime(t *testing.T) {
	c := newTestCatalog(t, "app")

	// 时间戳片段损坏但仍匹配候选规则的文件
	touch(t, c.Dir(), "app garbled-timestamp.log", 1)
	// 正常文件，时间戳在遥远的过去
	old := "app " + FormatTimestamp(time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local)) + ".log"
	touch(t, c.Dir(), old, 1)

	records, err := c.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 损坏文件以创建时间（刚刚）为键，排在 2000 年的文件之前；排序不报错
	assert.Equal(t, "app garbled-timestamp.log", records[0].Name())
	assert.Equal(t, old, records[1].Name())
}

// =============================================================================
// 命名与创建
// =============================================================================

func TestNewFileNameShape(t *testing.T) {
	c := newTestCatalog(t, "myapp")
	name := c.NewFileName()

	assert.True(t, c.isCandidate(name))
	_, err := TimestampFromName(name)
	assert.NoError(t, err)
}

func TestCreateFileWithHeader(t *testing.T) {
	c := newTestCatalog(t, "app")

	path, err := c.CreateFile([]byte("header\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "header\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCreateFileCollisionCounter(t *testing.T) {
	c := newTestCatalog(t, "app")

	// 连续创建：时钟精度内的冲突通过计数器解决，全部成功且互不相同
	seen := make(map[string]bool)
	for range 8 {
		path, err := c.CreateFile(nil)
		require.NoError(t, err)
		assert.False(t, seen[path], "路径必须唯一: %s", path)
		seen[path] = true
	}

	names, err := c.ListCandidates()
	require.NoError(t, err)
	assert.Len(t, names, 8)
}

func TestCounterName(t *testing.T) {
	base := "app 2024-01-02--03-04-05-006.log"
	assert.Equal(t, base, counterName(base, 1))
	assert.Equal(t, "app 2024-01-02--03-04-05-006 2.log", counterName(base, 2))
	assert.Equal(t, "app 2024-01-02--03-04-05-006 13.log", counterName(base, 13))
}

func TestCreateFileExhaustion(t *testing.T) {
	c := newTestCatalog(t, "app")
	// 移除目录写权限使创建持续失败（非冲突性错误）
	require.NoError(t, os.Chmod(c.Dir(), 0o550))
	t.Cleanup(func() { _ = os.Chmod(c.Dir(), 0o750) })

	if _, err := os.Create(filepath.Join(c.Dir(), "probe")); err == nil {
		t.Skip("当前环境忽略目录写权限（如 root），无法构造创建失败")
	}

	_, err := c.CreateFile(nil)
	assert.ErrorIs(t, err, ErrCreateExhausted)
}
