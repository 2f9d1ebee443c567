package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/chat"
	"github.com/fwojciec/relay/config"
	"github.com/fwojciec/relay/openai"
	"github.com/fwojciec/relay/speech"
	"go.uber.org/zap"
)

// app holds the wired components for one run.
type app struct {
	controller *chat.Controller
	speaker    *speech.Speaker
	metrics    *metricsServer
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	client := openai.New(cfg.APIKey,
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithHTTPClient(&http.Client{Transport: transport}),
		openai.WithLogger(logger.Named("openai")),
		openai.WithStreamUsage(cfg.StreamUsage),
		openai.WithRateLimit(cfg.RateLimit),
	)

	opts := []chat.Option{
		chat.WithModel(cfg.Model),
		chat.WithMaxTokens(cfg.MaxTokens),
		chat.WithCycleTimeout(cfg.CycleTimeout),
		chat.WithLogger(logger.Named("chat")),
	}
	if cfg.Temperature != nil {
		opts = append(opts, chat.WithTemperature(*cfg.Temperature))
	}

	a := &app{}
	if cfg.Metrics.Addr != "" {
		reg := newRegistry()
		m, err := chat.NewMetrics(reg)
		if err != nil {
			return nil, err
		}
		srv, err := serveMetrics(cfg.Metrics.Addr, reg, logger.Named("metrics"))
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		a.metrics = srv
		opts = append(opts, chat.WithMetrics(m))
	}
	if cfg.Speech.Enabled {
		sp, err := speech.New(strings.Fields(cfg.Speech.Command), speech.WithLogger(logger.Named("speech")))
		if err != nil {
			a.closeMetrics()
			return nil, err
		}
		a.speaker = sp
		opts = append(opts, chat.WithCompletionHook(sp))
	}

	a.controller = chat.New(client, relay.NewSession(cfg.SystemPrompt), opts...)
	return a, nil
}

// Close cancels any in-flight cycle, stops speech and waits for
// outstanding completion hooks.
func (a *app) Close() {
	a.controller.Cancel()
	if a.speaker != nil {
		_ = a.speaker.Close()
	}
	a.controller.Wait()
	a.closeMetrics()
}

func (a *app) closeMetrics() {
	if a.metrics != nil {
		_ = a.metrics.Close()
	}
}
