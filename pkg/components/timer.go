package components

// TimerComponent 一次性计时器
// 由帧循环推进（累加 deltaTime），取消后不会触发
type TimerComponent struct {
	Name        string  // 计时器名称，如 "trigger"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	Active      bool    // 是否在计时
}

// Start 开始（或重新开始）计时
func (t *TimerComponent) Start(seconds float64) {
	t.TargetTime = seconds
	t.CurrentTime = 0
	t.Active = true
}

// Cancel 取消计时
func (t *TimerComponent) Cancel() {
	t.Active = false
	t.CurrentTime = 0
}

// Tick 推进计时器，到时返回 true（只返回一次）
func (t *TimerComponent) Tick(dt float64) bool {
	if !t.Active {
		return false
	}
	t.CurrentTime += dt
	if t.CurrentTime >= t.TargetTime {
		t.Active = false
		return true
	}
	return false
}
