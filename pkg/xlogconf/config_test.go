package xlogconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
dir: /var/log/myapp
app_id: myapp
rolling:
  max_file_size_bytes: 16777216
  frequency_seconds: 86400
  reuse_existing_files: false
retention:
  max_file_count: 7
  disk_quota_bytes: 104857600
  sweep_schedule: "@every 1h"
`

const jsonConfig = `{
  "dir": "/var/log/myapp",
  "app_id": "myapp",
  "rolling": {"max_file_size_bytes": 1024},
  "retention": {"max_file_count": 3}
}`

func TestLoadBytes_YAML(t *testing.T) {
	cfg, err := LoadBytes([]byte(yamlConfig), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "/var/log/myapp", cfg.Dir)
	assert.Equal(t, "myapp", cfg.AppID)
	assert.EqualValues(t, 16777216, cfg.Rolling.MaxFileSizeBytes)
	assert.EqualValues(t, 86400, cfg.Rolling.FrequencySeconds)
	require.NotNil(t, cfg.Rolling.ReuseExistingFiles)
	assert.False(t, *cfg.Rolling.ReuseExistingFiles)
	assert.Equal(t, 7, cfg.Retention.MaxFileCount)
	assert.EqualValues(t, 104857600, cfg.Retention.DiskQuotaBytes)
	assert.Equal(t, "@every 1h", cfg.Retention.SweepSchedule)
}

func TestLoadBytes_JSON(t *testing.T) {
	cfg, err := LoadBytes([]byte(jsonConfig), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "myapp", cfg.AppID)
	assert.EqualValues(t, 1024, cfg.Rolling.MaxFileSizeBytes)
	assert.Equal(t, 3, cfg.Retention.MaxFileCount)
	assert.Nil(t, cfg.Rolling.ReuseExistingFiles, "未出现的键保持缺省")
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{name: "未知格式", data: "dir: /tmp", format: Format("toml"), wantErr: ErrUnsupportedFormat},
		{name: "语法错误", data: "{dir: ", format: FormatJSON, wantErr: ErrParseFailed},
		{name: "缺少目录", data: `app_id: myapp`, format: FormatYAML, wantErr: ErrInvalidConfig},
		{name: "缺少应用标识", data: `dir: /tmp/logs`, format: FormatYAML, wantErr: ErrInvalidConfig},
		{
			name:    "负的保留数量",
			data:    "dir: /tmp/logs\napp_id: a\nretention:\n  max_file_count: -1",
			format:  FormatYAML,
			wantErr: ErrInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "myapp", cfg.AppID)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("空路径", func(t *testing.T) {
		_, err := Load("")
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("未知扩展名", func(t *testing.T) {
		_, err := Load("/tmp/config.toml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrLoadFailed)
	})
}

func TestConfig_Manager(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Dir: dir, AppID: "app"}

	m, err := cfg.Manager()
	require.NoError(t, err)
	assert.Equal(t, dir, m.Dir())
	assert.Equal(t, "app", m.AppID())
}

func TestConfig_Options(t *testing.T) {
	reuse := false
	cfg := &Config{
		Dir:   "/tmp/logs",
		AppID: "app",
		Rolling: RollingConfig{
			MaxFileSizeBytes:   1024,
			ReuseExistingFiles: &reuse,
		},
		Retention: RetentionConfig{SweepSchedule: "@every 1h"},
	}

	// 所有设置的键都转换为选项：大小、周期、策略、接续开关、清扫排程
	assert.Len(t, cfg.Options(), 5)
}
