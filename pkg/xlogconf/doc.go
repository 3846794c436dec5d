// Package xlogconf 提供日志子系统的配置加载：从 YAML/JSON 文件或
// 原始字节解析出 [Config]，校验后转换为管理器选项。
//
// 典型配置文件：
//
//	dir: /var/log/myapp
//	app_id: myapp
//	rolling:
//	  max_file_size_bytes: 16777216
//	  frequency_seconds: 86400
//	  reuse_existing_files: true
//	retention:
//	  max_file_count: 7
//	  disk_quota_bytes: 104857600
//	  sweep_schedule: "@every 1h"
//
// 格式按文件扩展名检测（.yaml/.yml/.json）；从字节加载时显式指定格式，
// 适用于 K8s ConfigMap 等场景。
package xlogconf
