//go:build !android

package utils

// PrepareSaveDir 非 Android 平台由 gdata 自行创建目录
func PrepareSaveDir() (string, error) {
	return "", nil
}
