package server

import (
	"net/http"

	"github.com/learnhub-dev/learnhub/internal/app/config"
	"github.com/learnhub-dev/learnhub/internal/app/handlers"
	"github.com/learnhub-dev/learnhub/internal/app/logger"
	"github.com/learnhub-dev/learnhub/internal/app/metrics"
	"github.com/learnhub-dev/learnhub/internal/app/notifier"
	"github.com/learnhub-dev/learnhub/internal/app/storage"
)

func Serve(cfg *config.Config) error {
	repo, err := storage.NewRepoDB(cfg.DatabaseURI)
	if err != nil {
		return err
	}
	defer repo.Close()

	n := notifier.New(cfg.NoticeEndpoint, cfg.ClientTimeout)
	defer n.Close()

	m := metrics.New()

	var baseHandler = handlers.NewBaseHandler(repo, n, m, cfg.SecretKey)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: baseHandler,
	}

	logger.Logger.Info().Str("addr", cfg.RunAddress).Msg("listening")

	return server.ListenAndServe()
}
