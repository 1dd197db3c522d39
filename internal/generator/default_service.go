package generator

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/diagnostics"
	"git.home.luguber.info/inful/docsmith/internal/emit"
	"git.home.luguber.info/inful/docsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
	"git.home.luguber.info/inful/docsmith/internal/render"
	"git.home.luguber.info/inful/docsmith/internal/version"
)

// Service runs generations. The zero value is not usable; call NewService.
type Service struct {
	recorder metrics.Recorder
	now      func() time.Time
	getenv   func(string) string
}

// NewService returns a service using the wall clock, the process environment
// and no metrics.
func NewService() *Service {
	return &Service{
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		getenv:   os.Getenv,
	}
}

// WithRecorder injects a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithClock replaces the wall clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithEnv replaces the environment lookup used for SOURCE_DATE_EPOCH (tests).
func (s *Service) WithEnv(getenv func(string) string) *Service {
	s.getenv = getenv
	return s
}

// Run generates targets in order. The returned Result is non-nil even when
// an error is returned.
func (s *Service) Run(ctx context.Context, cfg *config.Config, targets ...Target) (*Result, error) {
	start := s.now()
	result := &Result{Targets: targets, StartTime: start}

	ref, err := cfg.Build.Reference(s.getenv, s.now)
	if err != nil {
		result.Manifest = manifest.New(version.Resolved(), start, start)
		result.RunID = result.Manifest.ID
		return s.finish(result, StatusFailed, err)
	}
	result.Reference = ref
	m := manifest.New(version.Resolved(), start, ref)
	m.DryRun = cfg.Build.DryRun
	m.Inputs = manifest.Inputs{Templates: templatesName(cfg), ConfigHash: configHash(cfg)}
	result.Manifest = m
	result.RunID = m.ID

	logger := slog.Default().With(logfields.RunID(m.ID))
	logger.Info("Starting generation", slog.Any("targets", targets), slog.Bool("dry_run", cfg.Build.DryRun))

	sink := &diagnostics.Sink{}
	in, err := LoadInputs(cfg, targets, ref, sink)
	if err != nil {
		return s.finish(result, StatusFailed, err)
	}
	if in.Index != nil {
		m.Inputs.Feed = cfg.API.Feed
	}
	if in.Catalog != nil {
		m.Inputs.Manual = cfg.Manual.Source
	}

	em := emit.New(cfg.Output.Directory, cfg.Build.DryRun)
	m.Outputs.Root = cfg.Output.Directory
	if cfg.Output.Clean {
		if err := em.Clean(); err != nil {
			return s.finish(result, StatusFailed, err)
		}
	}
	out := &siteOutput{
		emitter:  em,
		policy:   cfg.Build.OnPageError,
		recorder: s.recorder,
		manifest: m,
		logger:   logger,
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			s.collect(result, out, sink)
			return s.finish(result, StatusFailed, err)
		}
		backend, err := BackendFor(t, cfg)
		if err != nil {
			return s.finish(result, StatusFailed, err)
		}
		m.Inputs.Backends = append(m.Inputs.Backends, backend.Name())
		logger.Info("Rendering", logfields.Backend(backend.Name()))
		if err := backend.Render(in, out); err != nil {
			s.collect(result, out, sink)
			return s.finish(result, StatusFailed, err)
		}
	}
	s.collect(result, out, sink)

	if len(out.failures) > 0 {
		return s.finish(result, StatusFailed, aggregate(out.failures))
	}
	if cfg.Build.StrictLinks {
		if n := result.BrokenLinks(); n > 0 {
			return s.finish(result, StatusFailed,
				errors.ValidationError(fmt.Sprintf("%d broken link(s) found with build.strict_links enabled", n)).
					WithContext(logfields.KeyCount, n).
					Build())
		}
	}
	if len(result.Diagnostics) > 0 {
		return s.finish(result, StatusWarning, nil)
	}
	return s.finish(result, StatusSuccess, nil)
}

// collect copies run totals into result and reports diagnostics.
func (s *Service) collect(result *Result, out *siteOutput, sink *diagnostics.Sink) {
	result.Pages = out.pages
	result.Stats = out.emitter.Stats()
	result.Failed = result.Failed[:0]
	for _, f := range out.failures {
		result.Failed = append(result.Failed, f.path)
	}
	result.Diagnostics = sink.Items()
	for _, d := range result.Diagnostics {
		s.recorder.IncDiagnostic(string(d.Kind))
	}
	result.Manifest.SetDiagnostics(sink)
}

func (s *Service) finish(result *Result, status Status, err error) (*Result, error) {
	result.Status = status
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Manifest.Finish(string(status), result.EndTime)

	s.recorder.ObserveRunDuration(result.Duration)
	s.recorder.IncRunOutcome(metrics.OutcomeLabel(status))

	attrs := []any{
		logfields.RunID(result.RunID),
		slog.String("status", string(status)),
		slog.Int("pages", result.Pages),
		slog.Int("failed", len(result.Failed)),
		slog.Int("diagnostics", len(result.Diagnostics)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())),
	}
	if err != nil {
		slog.Error("Generation failed", append(attrs, logfields.Error(err))...)
	} else {
		slog.Info("Generation finished", attrs...)
	}
	return result, err
}

// aggregate reports every failed page in one build error whose cause is the
// first failure.
func aggregate(failures []pageFailure) error {
	names := make([]string, len(failures))
	for i, f := range failures {
		names[i] = f.source
	}
	return errors.WrapError(failures[0].err, errors.CategoryBuild,
		fmt.Sprintf("%d page(s) failed: %s", len(failures), strings.Join(names, ", "))).
		WithContext("failed_pages", names).
		Fatal().
		Build()
}

func templatesName(cfg *config.Config) string {
	if cfg.Templates.Dir != "" {
		return cfg.Templates.Dir
	}
	return render.DefaultThemeName
}

func configHash(cfg *config.Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
