package cross

import "github.com/sirupsen/logrus"

// log 路口模块的日志记录器
var log = logrus.WithField("module", "cross")
