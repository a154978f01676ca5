package main

import (
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/codecraft-sched/task"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/config"
	"github.com/tsinghua-fib-lab/codecraft-sched/utils/input"
	"gopkg.in/yaml.v2"
)

var (
	// 配置文件路径，为空则使用默认配置
	configPath = flag.String("config", "", "config file path (empty means default config)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	// 四个位置参数：car road cross answer
	args := flag.Args()
	if len(args) < 4 {
		log.Error("please input args: car_path, road_path, cross_path, answer_path")
		os.Exit(1)
	}
	carPath, roadPath, crossPath, answerPath := args[0], args[1], args[2], args[3]
	log.Infof("car_path is %s", carPath)
	log.Infof("road_path is %s", roadPath)
	log.Infof("cross_path is %s", crossPath)
	log.Infof("answer_path is %s", answerPath)

	// 获取配置
	c := config.Default()
	if *configPath != "" {
		file, err := os.ReadFile(*configPath)
		if err != nil {
			log.Errorf("config file load err: %v", err)
			os.Exit(1)
		}
		if err := yaml.UnmarshalStrict(file, &c); err != nil {
			log.Errorf("config file load err: %v", err)
			os.Exit(1)
		}
	}
	log.Infof("%+v", c)

	in, err := input.Read(carPath, roadPath, crossPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	ctx, err := task.NewContext(in, c)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	if err := ctx.Run(answerPath); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
