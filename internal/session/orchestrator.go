package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yildizm/designtutor/internal/locale"
	"github.com/yildizm/designtutor/internal/logger"
	"github.com/yildizm/designtutor/internal/preview"
	"github.com/yildizm/designtutor/internal/tutor"
)

// Analyzer sends an upload for analysis
type Analyzer interface {
	Analyze(ctx context.Context, upload *tutor.Upload, locale string) (*tutor.TutorialResult, error)
}

// Previewer builds a local preview of a file
type Previewer interface {
	Generate(ctx context.Context, path string) (*preview.Image, error)
}

// Recorder receives orchestration events for instrumentation
type Recorder interface {
	ObserveRequest(outcome string, elapsed time.Duration)
	StaleDiscarded()
}

// Request outcomes passed to Recorder.ObserveRequest
const (
	OutcomeSuccess     = "success"
	OutcomeApplication = "application_error"
	OutcomeTransport   = "transport_error"
	OutcomeDecode      = "decode_error"
	OutcomeCanceled    = "canceled"
)

// ResolutionKind tells which asynchronous operation finished
type ResolutionKind int

const (
	PreviewResolved ResolutionKind = iota
	AnalysisResolved
)

// Resolution is the result of a Task, applied back on the event loop
type Resolution struct {
	Kind    ResolutionKind
	Token   Token
	Preview *preview.Image
	Result  *tutor.TutorialResult
	Err     error
	Elapsed time.Duration
}

// Task is one asynchronous operation started by an upload. Tasks may run on
// any goroutine; their Resolution must be handed to Apply on the event loop.
type Task func() Resolution

// Options configures an Orchestrator
type Options struct {
	Analyzer   Analyzer
	Previewer  Previewer
	Locale     locale.Provider
	Translator locale.Translator
	Recorder   Recorder
	Logger     *logger.Logger
}

// Orchestrator validates uploads, issues tasks and applies their results to
// the Machine. A superseded analysis is canceled and its late resolution,
// if any, is discarded.
type Orchestrator struct {
	machine    *Machine
	analyzer   Analyzer
	previewer  Previewer
	locale     locale.Provider
	translator locale.Translator
	recorder   Recorder
	log        *logger.Logger

	base   context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc
}

// NewOrchestrator creates an Orchestrator in PhaseIdle
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Analyzer == nil {
		return nil, errors.New("session: analyzer is required")
	}
	if opts.Locale == nil {
		return nil, errors.New("session: locale provider is required")
	}

	translator := opts.Translator
	if translator == nil {
		if t, ok := opts.Locale.(locale.Translator); ok {
			translator = t
		} else {
			return nil, errors.New("session: translator is required")
		}
	}

	base, stop := context.WithCancel(context.Background())
	return &Orchestrator{
		machine:    NewMachine(),
		analyzer:   opts.Analyzer,
		previewer:  opts.Previewer,
		locale:     opts.Locale,
		translator: translator,
		recorder:   opts.Recorder,
		log:        opts.Logger,
		base:       base,
		stop:       stop,
	}, nil
}

// Session returns the current snapshot
func (o *Orchestrator) Session() Session {
	return o.machine.Session()
}

// Upload validates path and starts a new cycle. On input rejection the
// session is left untouched and the error is returned. Otherwise the
// returned tasks must be run concurrently and their resolutions applied.
func (o *Orchestrator) Upload(path string) (Token, []Task, error) {
	upload, err := tutor.OpenUpload(path)
	if err != nil {
		o.log.DebugWithFields("upload rejected", []logger.Field{logger.F("path", path), logger.Error(err)})
		return 0, nil, err
	}

	o.cancelInFlight()
	ctx, cancel := context.WithCancel(o.base)
	o.cancel = cancel

	tok := o.machine.Upload()
	lang := o.locale.Locale()

	o.log.InfoWithFields("upload started", []logger.Field{
		logger.F("token", tok),
		logger.F("file", upload.Name),
		logger.F("language", lang),
	})

	tasks := []Task{o.analysisTask(ctx, tok, upload, lang)}
	if o.previewer != nil {
		tasks = append(tasks, o.previewTask(ctx, tok, path))
	}
	return tok, tasks, nil
}

// Apply folds a resolution into the session. The bool reports whether the
// session changed.
func (o *Orchestrator) Apply(res Resolution) (Session, bool) {
	switch res.Kind {
	case PreviewResolved:
		if res.Err != nil {
			o.log.DebugWithFields("preview unavailable", []logger.Field{logger.F("token", res.Token), logger.Error(res.Err)})
			return o.machine.Session(), false
		}
		applied := o.machine.ApplyPreview(res.Token, res.Preview)
		if !applied {
			o.log.DebugWithFields("stale preview discarded", []logger.Field{logger.F("token", res.Token)})
		}
		return o.machine.Session(), applied

	case AnalysisResolved:
		o.observe(res)

		var message string
		if res.Result == nil {
			message = o.message(res.Err)
		}

		if !o.machine.Resolve(res.Token, res.Result, message) {
			o.log.DebugWithFields("stale resolution discarded", []logger.Field{
				logger.F("token", res.Token),
				logger.F("latest", o.machine.Latest()),
			})
			if o.recorder != nil {
				o.recorder.StaleDiscarded()
			}
			return o.machine.Session(), false
		}

		if res.Err != nil {
			o.log.WarnWithFields("analysis failed", []logger.Field{logger.F("token", res.Token), logger.Error(res.Err)})
		}
		return o.machine.Session(), true
	}

	return o.machine.Session(), false
}

// Reset cancels any in-flight request and returns to PhaseIdle
func (o *Orchestrator) Reset() Session {
	o.cancelInFlight()
	o.machine.Reset()
	o.log.Debug("session reset")
	return o.machine.Session()
}

// Close cancels everything started by this orchestrator
func (o *Orchestrator) Close() {
	o.cancelInFlight()
	o.stop()
}

func (o *Orchestrator) analysisTask(ctx context.Context, tok Token, upload *tutor.Upload, lang string) Task {
	return func() Resolution {
		start := time.Now()
		result, err := o.analyzer.Analyze(ctx, upload, lang)
		return Resolution{
			Kind:    AnalysisResolved,
			Token:   tok,
			Result:  result,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}

func (o *Orchestrator) previewTask(ctx context.Context, tok Token, path string) Task {
	return func() Resolution {
		img, err := o.previewer.Generate(ctx, path)
		return Resolution{
			Kind:    PreviewResolved,
			Token:   tok,
			Preview: img,
			Err:     err,
		}
	}
}

// message maps an analysis failure to display text. Transport failures
// use the localized unknown-error string; service failures carry their own.
func (o *Orchestrator) message(err error) string {
	var ae *tutor.AnalysisError
	if err != nil && errors.As(err, &ae) && ae.Kind != tutor.KindTransport {
		return ae.Message
	}
	return o.translator.T("error.unknown")
}

// Rejection returns the localized text for an error returned by Upload
func (o *Orchestrator) Rejection(err error) string {
	switch tutor.ValidationField(err) {
	case tutor.FieldType:
		return o.translator.T("upload.unsupported")
	case tutor.FieldSize:
		return o.translator.T("upload.tooLarge")
	default:
		return o.translator.T("upload.unreadable")
	}
}

func (o *Orchestrator) observe(res Resolution) {
	if o.recorder == nil {
		return
	}
	o.recorder.ObserveRequest(Outcome(res.Err), res.Elapsed)
}

func (o *Orchestrator) cancelInFlight() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Outcome classifies an analysis error for instrumentation
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case tutor.IsTransportError(err):
		return OutcomeTransport
	case tutor.IsApplicationError(err):
		return OutcomeApplication
	default:
		return OutcomeDecode
	}
}

// Dispatch runs tasks on their own goroutines and delivers each resolution
// on the returned channel, which is closed after the last one.
func Dispatch(tasks []Task) <-chan Resolution {
	out := make(chan Resolution, len(tasks))
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			out <- task()
		}(task)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
