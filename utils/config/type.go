package config

// Scheduling 调度器控制配置
// 功能：定义调度核心的可调参数
// 说明：所有字段都有默认值，配置文件只需覆盖关心的项
type Scheduling struct {
	CapacityThreshold float64 `yaml:"capacity_threshold"` // 封锁容量占总容量的比例
	OnRoadSoftCap     int     `yaml:"on_road_soft_cap"`   // 同时在路网中车辆数上限
	PIdeal            float64 `yaml:"p_ideal"`            // 上路时选择理想路径的概率
	PathEnumMax       int     `yaml:"path_enum_max"`      // 单次路径规划保留的简单路径数上限
	PathProbeMax      int     `yaml:"path_probe_max"`     // 单次路径规划探索的简单路径数上限
	RngSeed           uint64  `yaml:"rng_seed"`           // 随机数种子
}

// Config YAML配置文件的根结构
type Config struct {
	Scheduling Scheduling `yaml:"scheduling"`
}

// Default 返回带默认参数的配置
func Default() Config {
	return Config{
		Scheduling: Scheduling{
			CapacityThreshold: 0.5,
			OnRoadSoftCap:     128,
			PIdeal:            0.5,
			PathEnumMax:       10,
			PathProbeMax:      100,
			RngSeed:           0,
		},
	}
}
