package configs

import "github.com/spf13/viper"

const (
	// DefaultReleaseDir 默认发布文件根目录.
	DefaultReleaseDir = "data/releases"
)

// StorageConfig 发布文件的本地目录配置. 审批通过的 ReleaseFile 物理文件存放于
// <release_dir>/<workspace>/releases/<release_id>/<name>，数据库只保存相对路径.
type StorageConfig struct {
	ReleaseDir string `mapstructure:"release_dir" rule:"required"`
}

func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.release_dir", DefaultReleaseDir)
}
