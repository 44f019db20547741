package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/reportmailer/config"
	"github.com/customeros/reportmailer/internal/cron"
	"github.com/customeros/reportmailer/internal/logger"
	"github.com/customeros/reportmailer/internal/models"
	"github.com/customeros/reportmailer/internal/tracing"
	"github.com/customeros/reportmailer/internal/utils"
	"github.com/customeros/reportmailer/services"
	"github.com/customeros/reportmailer/services/configfile"
)

const appSourceCLI = "cli"

type Server struct {
	config       *config.Config
	log          logger.Logger
	services     *services.Services
	scheduler    *cron.Scheduler
	tracerCloser io.Closer
	readConfig   func(path string) (map[string]string, error)
}

func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	// Initialize tracing
	closer, err := tracing.InitGlobalTracer(cfg.Tracing, appLogger)
	if err != nil {
		return nil, err
	}

	// Initialize services
	svcs := services.InitServices(cfg, appLogger)

	s := newServer(cfg, appLogger, svcs)
	s.tracerCloser = closer
	return s, nil
}

func newServer(cfg *config.Config, log logger.Logger, svcs *services.Services) *Server {
	return &Server{
		config:     cfg,
		log:        log,
		services:   svcs,
		scheduler:  cron.NewScheduler(cfg.Scheduler, log, svcs.EmailDispatcher),
		readConfig: configfile.Read,
	}
}

// LogFile is the file the detailed log is written to.
func (s *Server) LogFile() string {
	return s.config.Logger.File
}

// ConfigFile is the report configuration file the server reads.
func (s *Server) ConfigFile() string {
	return s.config.AppConfig.ReportConfigFile
}

// LoadParameters reads the report configuration file, looks up the sender
// credentials and validates both into a parameter set.
func (s *Server) LoadParameters(ctx context.Context) (*models.ParameterSet, error) {
	span, ctx := s.startSpan(ctx, "Server.LoadParameters")
	defer span.Finish()

	raw, err := s.readConfig(s.ConfigFile())
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Error reading config file: %v", err)
		return nil, err
	}

	sender, err := s.services.SecretStore.Credentials(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Error reading sender credentials: %v", err)
		return nil, err
	}

	return s.services.ConfigValidator.Validate(ctx, raw, sender)
}

// Check loads the parameters and verifies the sender can log in to the
// outbound server. Nothing is sent.
func (s *Server) Check(ctx context.Context) (*models.ParameterSet, error) {
	span, ctx := s.startSpan(ctx, "Server.Check")
	defer span.Finish()

	params, err := s.LoadParameters(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	if err = s.services.EmailDispatcher.TestLogin(ctx, params); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return params, nil
}

// SendNow dispatches the report once, immediately, without scheduling.
func (s *Server) SendNow(ctx context.Context) ([]models.DispatchOutcome, error) {
	params, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}

	span, ctx := s.startSpan(ctx, "Server.SendNow")
	defer span.Finish()
	return s.services.EmailDispatcher.SendAll(ctx, params), nil
}

// Run checks the configuration and then dispatches the report on schedule
// until ctx is cancelled or the process receives SIGINT or SIGTERM.
// A configuration or login failure returns before anything is scheduled.
func (s *Server) Run(ctx context.Context) error {
	params, err := s.Check(ctx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Infof("Report mailer scheduled for %d recipients", len(params.Recipients))
	err = s.scheduler.Run(ctx, params)
	if errors.Is(err, context.Canceled) {
		s.log.Info("Shutting down...")
		return nil
	}
	return err
}

func (s *Server) Close() {
	if s.tracerCloser != nil {
		if err := s.tracerCloser.Close(); err != nil {
			s.log.Warnf("Error closing tracer: %v", err)
		}
	}
	_ = s.log.Sync()
}

func (s *Server) startSpan(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	if utils.GetAppSourceFromContext(ctx) == "" {
		ctx = utils.SetAppSourceInContext(ctx, appSourceCLI)
	}
	span, ctx := tracing.StartTracerSpan(ctx, operationName)
	tracing.TagComponentCLI(span)
	return span, ctx
}
