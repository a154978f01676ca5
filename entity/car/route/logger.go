package route

import "github.com/sirupsen/logrus"

// log 导航模块的日志记录器
var log = logrus.WithField("module", "route")
