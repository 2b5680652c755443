package bootstrap

import (
	"go.uber.org/zap"

	"jarvisdesk/internal/audio"
	"jarvisdesk/internal/backend"
	"jarvisdesk/internal/config"
	"jarvisdesk/internal/history"
	"jarvisdesk/internal/logging"
	"jarvisdesk/internal/ports"
	"jarvisdesk/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.Controller
	Poller     *usecase.Poller
	Microphone ports.Microphone
	Config     config.Config
	Logger     *zap.Logger
}

// Build wires all client dependencies for the current runtime.
func Build(events ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Console)
	if err != nil {
		return Services{}, err
	}

	client, err := backend.New(cfg.Backend.BaseURL, logger)
	if err != nil {
		return Services{}, err
	}

	player := audio.NewPlayer(logger)
	controller := usecase.NewController(
		client,
		player,
		events,
		history.NewStore(),
		logger,
		usecase.Config{
			StreamAnswers:  cfg.Backend.StreamAnswers,
			RequestTimeout: cfg.Backend.RequestTimeout,
		},
	)
	poller := usecase.NewPoller(
		controller,
		client,
		player,
		logger,
		cfg.Poll.Interval,
		cfg.Backend.RequestTimeout,
	)

	return Services{
		Controller: controller,
		Poller:     poller,
		Microphone: audio.NewMicrophone(logger),
		Config:     cfg,
		Logger:     logger,
	}, nil
}
