package generator

import (
	"io/fs"
	"log/slog"

	"git.home.luguber.info/inful/docsmith/internal/config"
	"git.home.luguber.info/inful/docsmith/internal/emit"
	"git.home.luguber.info/inful/docsmith/internal/logfields"
	"git.home.luguber.info/inful/docsmith/internal/manifest"
	"git.home.luguber.info/inful/docsmith/internal/metrics"
)

type pageFailure struct {
	path   string
	source string
	err    error
}

// siteOutput writes through an emitter and applies the page-error policy.
type siteOutput struct {
	emitter  *emit.Emitter
	policy   config.OnPageError
	recorder metrics.Recorder
	manifest *manifest.BuildManifest
	logger   *slog.Logger

	pages    int
	failures []pageFailure
}

func (o *siteOutput) Page(p RenderedPage) error {
	if err := o.emitter.Emit(p.Path, p.Data); err != nil {
		return err
	}
	o.pages++
	o.recorder.ObservePageDuration(p.Backend, p.Elapsed)
	o.recorder.IncPageResult(p.Backend, metrics.ResultSuccess)
	o.recorder.AddBytesWritten(p.Backend, int64(len(p.Data)))
	o.manifest.AddPage(p.Backend, p.Path, p.Data)
	return nil
}

func (o *siteOutput) PageFailed(backend, path, source string, err error) error {
	o.logger.Error("Page failed", logfields.Backend(backend), logfields.Page(source), logfields.Path(path), logfields.Error(err))
	o.recorder.IncPageResult(backend, metrics.ResultFailed)
	o.manifest.AddFailure(path, err)
	o.failures = append(o.failures, pageFailure{path: path, source: source, err: err})
	if o.policy == config.OnPageErrorAbort {
		return err
	}
	return nil
}

func (o *siteOutput) Asset(path string, data []byte) error {
	return o.emitter.Emit(path, data)
}

func (o *siteOutput) Static(dir string, fsys fs.FS) error {
	return o.emitter.CopyFS(fsys, dir)
}
