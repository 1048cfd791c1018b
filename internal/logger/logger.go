package logger

import "go.uber.org/zap"

var global *zap.Logger = zap.NewNop()

func Init(dev bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	global = l
	return nil
}

func L() *zap.Logger { return global }

func Sync() { _ = global.Sync() }
