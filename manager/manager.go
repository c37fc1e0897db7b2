package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func New(ui Poster, view View) *weather {
	return &weather{
		ui:   ui,
		view: view,
		log:  zap.NewNop(),
	}
}

// weather sequences geocoding, forecast, history and view updates for each
// search. Only the latest search may touch the view; older ones are cancelled
// and their results dropped.
type weather struct {
	ui        Poster
	view      View
	geocoding Geocoding
	forecast  Forecast
	history   History
	dictation Dictation
	log       *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (w *weather) SetGeocoding(geocoding Geocoding) {
	w.geocoding = geocoding
}

func (w *weather) SetForecast(forecast Forecast) {
	w.forecast = forecast
}

func (w *weather) SetHistory(history History) {
	w.history = history
}

func (w *weather) SetDictation(dictation Dictation) {
	w.dictation = dictation
}

func (w *weather) SetLogger(log *zap.Logger) {
	if log != nil {
		w.log = log
	}
}

// Init pushes the persisted history and the ready status to the view.
func (w *weather) Init() {
	var cities []string
	if w.history != nil {
		cities = w.history.Load()
	}
	w.ui.Post(func() {
		w.view.SetHistory(cities)
		w.view.SetStatus(StatusReady)
	})
}

// Recent returns the persisted recency list, most recent first.
func (w *weather) Recent() []string {
	if w.history == nil {
		return nil
	}
	return w.history.Load()
}

// Search starts the pipeline for text in the background. It only returns an
// error when the search could not be started.
func (w *weather) Search(ctx context.Context, text string) error {
	city := strings.TrimSpace(text)
	if city == "" {
		w.ui.Post(func() { w.view.SetStatus(StatusEnterCity) })
		return ErrInputEmpty
	}
	if w.geocoding == nil || w.forecast == nil {
		return fmt.Errorf("search pipeline is not configured")
	}

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.seq++
	seq := w.seq
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	w.ui.Post(func() {
		w.view.SetSearchEnabled(false)
		w.view.SetStatus(StatusSearching)
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()
		w.run(ctx, seq, city)
	}()

	return nil
}

// SearchHistory re-runs the search for the history entry at index.
func (w *weather) SearchHistory(ctx context.Context, index int) error {
	cities := w.Recent()
	if index < 0 || index >= len(cities) {
		return fmt.Errorf("history entry %d out of range (have %d)", index+1, len(cities))
	}

	city := cities[index]
	w.ui.Post(func() { w.view.SetQuery(city) })

	return w.Search(ctx, city)
}

// Dictate asks the dictation collaborator for a query and searches for it.
func (w *weather) Dictate(ctx context.Context) error {
	if w.dictation == nil || !w.dictation.Available() {
		w.ui.Post(func() { w.view.SetStatus(StatusVoiceUnsupported) })
		return ErrDictationUnsupported
	}

	w.ui.Post(func() { w.view.SetStatus(StatusListening) })

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		text, err := w.dictation.Listen(ctx)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("nothing recognized")
		}
		if err != nil {
			w.log.Error("dictation failed", zap.Error(fmt.Errorf("%w: %v", ErrDictationFailed, err)))
			w.ui.Post(func() { w.view.SetStatus(StatusVoiceFailed) })
			return
		}

		w.ui.Post(func() {
			w.view.SetQuery(text)
			w.view.SetStatus(StatusVoiceDone)
		})
		if err := w.Search(ctx, text); err != nil {
			w.log.Warn("dictated search not started", zap.Error(err))
		}
	}()

	return nil
}

// Wait blocks until every search and dictation started so far has finished.
// Their view updates may still be queued on the UI loop.
func (w *weather) Wait() {
	w.wg.Wait()
}

func (w *weather) run(ctx context.Context, seq uint64, city string) {
	log := w.log.With(zap.String("search_id", uuid.NewString()), zap.String("city", city))

	defer func() {
		if r := recover(); r != nil {
			log.Error("search panicked", zap.Any("panic", r), zap.Stack("stack"))
			w.postCurrent(seq, func() { w.view.SetStatus(StatusFailed) })
		}
		w.postCurrent(seq, func() { w.view.SetSearchEnabled(true) })
		log.Debug("search state", zap.Stringer("state", StateIdle))
	}()

	log.Debug("search state", zap.Stringer("state", StateResolving))
	location, err := w.geocoding.Get(ctx, city)
	if err != nil {
		if !errors.Is(err, ErrLocationNotFound) {
			err = fmt.Errorf("%w: %v", ErrLocationNotFound, err)
		}
		w.fail(log, seq, StateResolving, err)
		return
	}

	log.Debug("search state", zap.Stringer("state", StateFetching), zap.String("location", location.DisplayName))
	w.postCurrent(seq, func() { w.view.SetStatus(StatusFetching) })

	snapshot, err := w.forecast.Get(ctx, location)
	if err != nil {
		if !errors.Is(err, ErrWeatherUnavailable) {
			err = fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
		}
		w.fail(log, seq, StateFetching, err)
		return
	}

	if ctx.Err() != nil {
		log.Info("search superseded before recording")
		return
	}

	log.Debug("search state", zap.Stringer("state", StateRecording))
	if w.history != nil {
		if err := w.history.Record(city); err != nil {
			w.fail(log, seq, StateRecording, fmt.Errorf("%w: %v", ErrHistoryWrite, err))
			return
		}
		cities := w.history.Load()
		w.postCurrent(seq, func() { w.view.SetHistory(cities) })
	}

	w.postCurrent(seq, func() {
		log.Debug("search state", zap.Stringer("state", StateRendering))
		if err := w.render(snapshot, location.DisplayName); err != nil {
			log.Error("search failed", zap.Stringer("state", StateError), zap.Stringer("failed_in", StateRendering), zap.Error(err))
			w.view.SetStatus(StatusFor(err))
			return
		}
		log.Debug("search state", zap.Stringer("state", StateDone))
		w.view.SetStatus(StatusUpdated)
	})
}

func (w *weather) render(snapshot Snapshot, displayName string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRenderFault, r)
		}
	}()

	if err := w.view.Render(snapshot, displayName); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFault, err)
	}

	return nil
}

func (w *weather) fail(log *zap.Logger, seq uint64, state State, err error) {
	if !w.current(seq) {
		log.Info("superseded search stopped", zap.Stringer("state", state), zap.Error(err))
		return
	}

	log.Error("search failed", zap.Stringer("state", StateError), zap.Stringer("failed_in", state), zap.Error(err))
	status := StatusFor(err)
	w.postCurrent(seq, func() { w.view.SetStatus(status) })
}

// postCurrent runs fn on the UI loop unless a newer search has started by
// the time it gets there.
func (w *weather) postCurrent(seq uint64, fn func()) {
	w.ui.Post(func() {
		if w.current(seq) {
			fn()
		}
	})
}

func (w *weather) current(seq uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq == seq
}
