package logger

import (
	"os"
	"path"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerService struct {
	Log *zap.Logger
}

// NewLoggerService tees a daily rotated JSON file under dir with a console
// core. The console shows debug output everywhere except prod.
func NewLoggerService(env, dir string) (*LoggerService, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}

	// 1. rotatelogs: app-2025-12-14.log
	writer, err := rotatelogs.New(
		path.Join(dir, "app-%Y-%m-%d.log"),
		rotatelogs.WithMaxAge(30*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	// 2. 2025-12-14 18:00:00
	customTimeEncoder := func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleLevel := zap.DebugLevel
	if env == "prod" {
		consoleLevel = zap.InfoLevel
	}

	// 3. file: JSON, console: colored
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(writer),
			zap.InfoLevel,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(func() zapcore.EncoderConfig {
				conf := encoderConfig
				conf.EncodeLevel = zapcore.CapitalColorLevelEncoder
				return conf
			}()),
			zapcore.AddSync(os.Stdout),
			consoleLevel,
		),
	)

	return &LoggerService{
		Log: zap.New(core, zap.AddCaller()).With(zap.String("env", env)),
	}, nil
}

// NewNop returns a service that discards everything.
func NewNop() *LoggerService {
	return &LoggerService{Log: zap.NewNop()}
}

// Sync flushes buffered entries.
func (s *LoggerService) Sync() error {
	return s.Log.Sync()
}
