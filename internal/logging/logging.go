package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg = zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stdout"},
	}
	leveler = &levelSetter{
		levelers: make(map[string]zap.AtomicLevel),
	}
	output = &redirectSink{ws: zapcore.Lock(os.Stdout)}
)

type Leveler interface {
	SetLevel(name string, level zapcore.Level)
	SetAllLevels(level zapcore.Level)
	GetLevel(name string) zapcore.Level
}

type levelSetter struct {
	levelers map[string]zap.AtomicLevel
	mu       sync.RWMutex
}

var _ Leveler = (*levelSetter)(nil)

func GetLeveler() Leveler {
	return leveler
}

func (lw *levelSetter) SetLevel(name string, level zapcore.Level) {
	_ = lw.setLevel(name, level)
}

// SetAllLevels changes the level of every logger created so far.
func (lw *levelSetter) SetAllLevels(level zapcore.Level) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	for _, l := range lw.levelers {
		l.SetLevel(level)
	}
}

func (lw *levelSetter) GetLevel(name string) zapcore.Level {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	if l, ok := lw.levelers[name]; ok {
		return l.Level()
	}

	return zap.InfoLevel
}

func (lw *levelSetter) setLevel(name string, level zapcore.Level) zap.AtomicLevel {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, ok := lw.levelers[name]; !ok {
		lw.levelers[name] = zap.NewAtomicLevelAt(level)
	}

	lw.levelers[name].SetLevel(level)

	return lw.levelers[name]
}

// redirectSink lets package level loggers, built before the environment is
// parsed, follow a later SetOutput call.
type redirectSink struct {
	mu sync.RWMutex
	ws zapcore.WriteSyncer
}

func (r *redirectSink) Write(p []byte) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ws.Write(p)
}

func (r *redirectSink) Sync() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ws.Sync()
}

func (r *redirectSink) swap(ws zapcore.WriteSyncer) {
	r.mu.Lock()
	r.ws = ws
	r.mu.Unlock()
}

// SetOutput sends every logger to the given paths, as understood by zap.Open
// ("stdout", "stderr" or a file path that is opened for append). The returned
// func closes any opened files and restores stdout.
func SetOutput(paths ...string) (func(), error) {
	if len(paths) == 0 {
		paths = cfg.OutputPaths
	}
	ws, closeFn, err := zap.Open(paths...)
	if err != nil {
		return nil, err
	}
	output.swap(ws)
	return func() {
		_ = output.Sync()
		output.swap(zapcore.Lock(os.Stdout))
		closeFn()
	}, nil
}

func New(name string) *zap.SugaredLogger {
	level := leveler.setLevel(name, zap.InfoLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), output, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.PanicLevel)).Named(name).Sugar()
}
