package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 是全局 SugaredLogger，调用 Init 之前为 no-op 实现。
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Init 按给定级别构建生产环境 logger 并替换全局实例。
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}

// Sync 刷新缓冲中的日志。
func Sync() {
	_ = Log.Sync()
}
