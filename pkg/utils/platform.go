//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设置为 1 时桌面端按移动端方式处理输入
const MobileEmulateEnv = "GRENADEGRID_MOBILE_EMULATE"

// IsMobile 桌面端默认返回 false
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
