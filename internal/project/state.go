package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/wtlab/wtproj/internal/logging"
)

// Failure classes reported by LoadProject, Save and SaveFittingResult.
var (
	ErrOpen      = errors.New("project file cannot be opened")
	ErrMalformed = errors.New("project file is malformed")
	ErrWrite     = errors.New("project file cannot be written")
)

const filePerm = 0644

// State is the shared parameter cache and project document. All methods are
// safe for concurrent use; each one observes or replaces the whole state at once.
type State struct {
	mu sync.RWMutex

	fs  afero.Fs
	log *logging.Logger

	params   ParameterSet
	doc      Document
	filePath string
	dir      string
	loaded   bool
}

// Option configures a State built by New.
type Option func(*State)

// WithFs sets the file system the State reads and writes project files on.
func WithFs(fs afero.Fs) Option {
	return func(s *State) { s.fs = fs }
}

// WithLogger sets the sink for load and save reports.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) { s.log = l }
}

// New returns an isolated State holding the default parameters and no project.
func New(opts ...Option) *State {
	s := &State{
		params: DefaultParameters(),
		doc:    Document{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = logging.Default()
	}
	s.log = s.log.Named("project")
	return s
}

var (
	instance     *State
	instanceOnce sync.Once
)

// Instance returns the process-wide State, building it on first call with the
// OS file system and the default logger. Set the default logger with
// logging.SetDefault before the first call to route its reports.
func Instance() *State {
	instanceOnce.Do(func() {
		instance = New()
	})
	return instance
}

// SetParameters establishes a new project: it stores p and path and marks the
// project as loaded. When the cached document is empty, reservoir and pvt
// blocks are synthesized from p; a populated document is left as is.
// Nothing is written to disk.
func (s *State) SetParameters(p ParameterSet, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params = p
	s.filePath = path
	s.dir = s.resolveDir(path)
	s.loaded = true

	if len(s.doc) == 0 {
		s.doc = Document{
			KeyReservoir: p.reservoirBlock(),
			KeyPVT:       p.pvtBlock(),
		}
	}
}

// LoadProject reads and parses the project file at path and, on success,
// replaces the cached document, parameters and paths together. On failure
// nothing in the State changes.
func (s *State) LoadProject(path string) error {
	log := s.log.With(zap.String("path", path))

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		log.Warn("cannot open project file", zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	log.Trace("project file read", zap.Int("bytes", len(data)))

	doc, err := ParseDocument(data)
	if err != nil {
		log.Warn("project file format error", zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}

	params := parametersFrom(doc)
	dir := filepath.Dir(absPath(path))

	s.mu.Lock()
	s.doc = doc
	s.params = params
	s.filePath = path
	s.dir = dir
	s.loaded = true
	s.mu.Unlock()

	s.log.Info("project parameters loaded", zap.String("dir", dir))
	return nil
}

// SaveFittingResult stores block under the fitting key and writes the whole
// document back to the project file. Without a known project file it does
// nothing. A failed write keeps the in-memory update.
func (s *State) SaveFittingResult(block map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filePath == "" {
		return nil
	}

	if block == nil {
		block = map[string]any{}
	}
	if s.doc == nil {
		s.doc = Document{}
	}
	s.doc[KeyFitting] = cloneObject(block)

	if err := s.writeLocked(); err != nil {
		s.log.Error("saving fitting result failed", zap.String("path", s.filePath), zap.Error(err))
		return err
	}
	s.log.Info("fitting result saved", zap.String("path", s.filePath))
	return nil
}

// Save writes the cached document to the project file. Like
// SaveFittingResult it is a no-op when no project file is known.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filePath == "" {
		return nil
	}
	if err := s.writeLocked(); err != nil {
		s.log.Error("saving project failed", zap.String("path", s.filePath), zap.Error(err))
		return err
	}
	s.log.Info("project saved", zap.String("path", s.filePath))
	return nil
}

func (s *State) writeLocked() error {
	data, err := s.doc.Marshal()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.filePath, err)
	}
	if err := afero.WriteFile(s.fs, s.filePath, data, filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.filePath, err)
	}
	return nil
}

// FittingResult returns a copy of the document's fitting block, or an empty
// map when there is none.
func (s *State) FittingResult() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.doc[KeyFitting].(map[string]any); ok {
		return cloneObject(m)
	}
	return map[string]any{}
}

// Document returns a deep copy of the cached project document.
func (s *State) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return Document{}
	}
	return s.doc.Clone()
}

// Parameters returns the cached parameter set.
func (s *State) Parameters() ParameterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

func (s *State) Phi() float64 { return s.Parameters().Porosity }
func (s *State) H() float64   { return s.Parameters().Thickness }
func (s *State) Mu() float64  { return s.Parameters().Viscosity }
func (s *State) B() float64   { return s.Parameters().VolumeFactor }
func (s *State) Ct() float64  { return s.Parameters().Compressibility }
func (s *State) Q() float64   { return s.Parameters().ProductionRate }
func (s *State) Rw() float64  { return s.Parameters().WellRadius }

// ProjectPath returns the directory of the active project.
func (s *State) ProjectPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// ProjectFilePath returns the project file path as it was given.
func (s *State) ProjectFilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filePath
}

// HasLoadedProject reports whether a project was set or loaded. It never
// reverts to false.
func (s *State) HasLoadedProject() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
