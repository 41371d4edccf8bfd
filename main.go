package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/hsidd1/SDI-40-Simulation/task"
	"github.com/hsidd1/SDI-40-Simulation/utils/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	// 分布式模式syncer地址，如果设置为空则激活独立部署模式
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 本程序监听的gRPC地址，为空则不提供时钟服务
	grpcAddr = flag.String("listen", "", "gRPC listening address (empty means no clock service), e.g. :51102")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 覆盖配置中的目标车辆数
	total = flag.Int("total", 0, "override control.total when positive")

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

	log = logrus.WithField("module", "sdsim")
)

// loadConfig 读取配置
// 说明：优先使用配置文件，其次使用Base64编码的配置数据，都没有时使用内置默认值；
// 配置中未出现的字段保留默认值
func loadConfig() config.Config {
	c := config.Default()
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Info("no config specified, using defaults")
		return c
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

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
	// 获取配置
	c := loadConfig()
	if *total > 0 {
		c.Control.Total = int32(*total)
	}
	if err := c.Validate(); err != nil {
		log.Panicf("config validate err: %v", err)
	}
	log.Infof("%+v", c)

	var sidecar *syncer.Sidecar
	if *grpcAddr != "" {
		sidecar = syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr)
	}
	results, err := task.RunAll(c, sidecar)
	if err != nil {
		log.Fatal(err)
	}
	if err := task.Write(context.Background(), task.Sinks(c), results); err != nil {
		log.Fatal(err)
	}
}
