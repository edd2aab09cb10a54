package classify

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/ironsheep/sketch-classifier/internal/log"
)

// State is the lifecycle of the selected classifier.
type State int

const (
	// Idle means no classifier is loaded for the selected mode.
	Idle State = iota
	// Loading means a load for the selected mode is in flight.
	Loading
	// Ready means the selected mode's classifier can be used.
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Model is a loaded classifier paired with the spec it was loaded from.
// The pair is installed and read as a unit, so scores are always interpreted
// against the label set of the classifier that produced them.
type Model struct {
	Spec       ModelSpec
	Classifier Classifier
}

// Manager owns the active Model and swaps it when the mode changes.
//
// Every Switch starts a new generation. A load only installs its Model if
// its generation is still the newest when it completes; older loads are
// discarded and report ErrSuperseded. While a load is in flight Active
// reports ErrNotReady, even if a Model from a previous mode is still held.
//
// Manager is safe for concurrent use.
type Manager struct {
	loader  Loader
	catalog Catalog

	mu       sync.Mutex
	state    State
	gen      uint64
	selected Mode
	model    *Model
	settled  chan struct{}
}

// NewManager returns an Idle manager. No model is loaded until Switch.
func NewManager(loader Loader, catalog Catalog) *Manager {
	settled := make(chan struct{})
	close(settled)
	return &Manager{
		loader:  loader,
		catalog: catalog,
		settled: settled,
	}
}

// Switch selects mode and loads its classifier asynchronously.
//
// The returned channel receives exactly one value: nil once the model is
// installed, ErrSuperseded if a later Switch won, or the load error. Load
// failures leave the manager Idle.
func (m *Manager) Switch(ctx context.Context, mode Mode) <-chan error {
	done := make(chan error, 1)

	spec, ok := m.catalog[mode]
	if !ok {
		done <- errors.Wrapf(ErrUnknownMode, "%s not in catalog", mode)
		return done
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.state = Loading
	m.selected = mode
	settled := make(chan struct{})
	m.settled = settled
	m.mu.Unlock()

	log.Trace.Printf("loading %s model from %s (generation %d)", mode, spec.Path, gen)

	go func() {
		c, err := m.loader.Load(ctx, spec.Path)
		done <- m.install(gen, spec, c, err)
		close(settled)
	}()

	return done
}

// Toggle switches to the mode not currently selected.
func (m *Manager) Toggle(ctx context.Context) <-chan error {
	return m.Switch(ctx, m.Mode().Toggle())
}

func (m *Manager) install(gen uint64, spec ModelSpec, c Classifier, loadErr error) error {
	m.mu.Lock()

	if gen != m.gen {
		inUse := m.model != nil && sameClassifier(m.model.Classifier, c)
		m.mu.Unlock()
		if loadErr == nil && !inUse {
			closeClassifier(c)
		}
		log.Trace.Printf("discarding %s model load (generation %d superseded)", spec.Mode, gen)
		return errors.Wrapf(ErrSuperseded, "%s model", spec.Mode)
	}

	old := m.model
	if loadErr != nil {
		m.model = nil
		m.state = Idle
		m.mu.Unlock()
		if old != nil {
			closeClassifier(old.Classifier)
		}
		log.Warning.Printf("failed to load %s model from %s: %v", spec.Mode, spec.Path, loadErr)
		return errors.Wrapf(loadErr, "failed to load %s model", spec.Mode)
	}

	m.model = &Model{Spec: spec, Classifier: c}
	m.state = Ready
	m.mu.Unlock()

	if old != nil && !sameClassifier(old.Classifier, c) {
		closeClassifier(old.Classifier)
	}
	log.Info.Printf("%s model ready (%d labels)", spec.Mode, len(spec.Labels))
	return nil
}

// Active returns the installed Model, or ErrNotReady unless the manager is
// Ready.
func (m *Manager) Active() (Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Ready || m.model == nil {
		return Model{}, errors.Wrapf(ErrNotReady, "%s model is %s", m.selected, m.state)
	}
	return *m.model, nil
}

// Ready reports whether Active would succeed.
func (m *Manager) Ready() bool {
	return m.State() == Ready
}

// State returns the lifecycle state of the selected mode.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Mode returns the selected mode. During Loading this is the mode being
// loaded, not the mode of any previously installed Model.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Labels returns the label set of the selected mode.
func (m *Manager) Labels() LabelSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog[m.selected].Labels
}

// Wait blocks until the newest load settles, then returns nil if the
// manager is Ready and ErrNotReady otherwise.
func (m *Manager) Wait(ctx context.Context) error {
	for {
		m.mu.Lock()
		settled := m.settled
		m.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		m.mu.Lock()
		current := m.settled == settled
		state := m.state
		m.mu.Unlock()

		if !current {
			continue
		}
		if state != Ready {
			return ErrNotReady
		}
		return nil
	}
}

// Close releases the installed classifier and returns the manager to Idle.
// Loads still in flight are superseded.
func (m *Manager) Close() error {
	m.mu.Lock()
	old := m.model
	m.model = nil
	m.state = Idle
	m.gen++
	m.mu.Unlock()

	if old != nil {
		closeClassifier(old.Classifier)
	}
	return nil
}
