package config

// RuntimeConfig 运行时配置
// 功能：存储解析完成后运行期使用的配置信息
type RuntimeConfig struct {
	All Config     // 全部配置
	S   Scheduling // 调度控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补齐非法或缺省的字段
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.S = config.Scheduling
	d := Default().Scheduling
	if rc.S.CapacityThreshold < 0 || rc.S.CapacityThreshold > 1 {
		rc.S.CapacityThreshold = d.CapacityThreshold
	}
	if rc.S.OnRoadSoftCap <= 0 {
		rc.S.OnRoadSoftCap = d.OnRoadSoftCap
	}
	if rc.S.PIdeal < 0 || rc.S.PIdeal > 1 {
		rc.S.PIdeal = d.PIdeal
	}
	if rc.S.PathEnumMax <= 0 {
		rc.S.PathEnumMax = d.PathEnumMax
	}
	if rc.S.PathProbeMax <= 0 {
		rc.S.PathProbeMax = d.PathProbeMax
	}

	return rc
}
