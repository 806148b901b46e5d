package config

import (
	"github.com/meitrex/course-service/events"
	"github.com/meitrex/course-service/log"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("Naming").Return(NewDefaultNaming())
	o.On("SupportedOperations").Return(AllOperations)
	o.On("Logger").Return(log.NewZapLogger(zap.NewNop()))
	o.On("Publisher").Return(events.NewLoggingPublisher(log.NewZapLogger(zap.NewNop())))
	return o
}

func (o *ConfigMock) Naming() NamingConvention {
	args := o.Called()
	return args.Get(0).(NamingConvention)
}

func (o *ConfigMock) SupportedOperations() Operations {
	args := o.Called()
	return args.Get(0).(Operations)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}

func (o *ConfigMock) Publisher() events.Publisher {
	args := o.Called()
	return args.Get(0).(events.Publisher)
}
