package tracing

import (
	"io"
	"net"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-client-go/log/zap"

	"github.com/customeros/reportmailer/internal/logger"
)

type JaegerConfig struct {
	Endpoint     string  `env:"JAEGER_ENDPOINT"`
	ServiceName  string  `env:"JAEGER_SERVICE_NAME" envDefault:"reportmailer" validate:"required"`
	AgentHost    string  `env:"JAEGER_AGENT_HOST" envDefault:"localhost" validate:"required"`
	AgentPort    string  `env:"JAEGER_AGENT_PORT" envDefault:"6831" validate:"required"`
	Enabled      bool    `env:"JAEGER_ENABLED" envDefault:"false"`
	LogSpans     bool    `env:"JAEGER_REPORTER_LOG_SPANS" envDefault:"false"`
	SamplerType  string  `env:"JAEGER_SAMPLER_TYPE" envDefault:"const" validate:"required"`
	SamplerParam float64 `env:"JAEGER_SAMPLER_PARAM" envDefault:"1" validate:"required"`
}

// ReporterAddress is where finished spans are sent: the collector endpoint
// when set, the local agent otherwise.
func (c *JaegerConfig) ReporterAddress() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return net.JoinHostPort(c.AgentHost, c.AgentPort)
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// InitGlobalTracer installs the process-wide tracer. With tracing disabled
// the opentracing no-op tracer is installed.
func InitGlobalTracer(jaegerConfig *JaegerConfig, log logger.Logger) (io.Closer, error) {
	if !jaegerConfig.Enabled {
		opentracing.SetGlobalTracer(opentracing.NoopTracer{})
		log.Debug("Tracing disabled")
		return noopCloser{}, nil
	}

	tracer, closer, err := initJaeger(jaegerConfig).NewTracer(config.Logger(zap.NewLogger(log.Logger())))
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	log.Infof("Tracing %s spans to %s", jaegerConfig.ServiceName, jaegerConfig.ReporterAddress())
	return closer, nil
}

func initJaeger(jaegerConfig *JaegerConfig) *config.Configuration {
	cfg := &config.Configuration{
		ServiceName: jaegerConfig.ServiceName,
		Sampler: &config.SamplerConfig{
			Type:  jaegerConfig.SamplerType,
			Param: jaegerConfig.SamplerParam,
		},
		Reporter: &config.ReporterConfig{
			LogSpans: jaegerConfig.LogSpans,
		},
	}

	if jaegerConfig.Endpoint != "" {
		cfg.Reporter.CollectorEndpoint = jaegerConfig.Endpoint
	} else {
		cfg.Reporter.LocalAgentHostPort = jaegerConfig.ReporterAddress()
	}

	return cfg
}
