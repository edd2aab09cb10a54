package classify

import (
	"context"
	"io"
	"net/url"
	"reflect"

	"github.com/pkg/errors"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
)

var (
	// ErrNotReady is returned when no model is loaded for the selected mode.
	ErrNotReady = errors.New("classifier not ready")

	// ErrSuperseded is reported by a load that finished after a newer
	// Switch call.
	ErrSuperseded = errors.New("model load superseded")

	// ErrScoreMismatch means a classifier returned a score vector whose
	// length differs from its label set.
	ErrScoreMismatch = errors.New("score vector does not match label set")

	// ErrUnknownMode is returned for an unrecognized mode name or a mode
	// missing from the catalog.
	ErrUnknownMode = errors.New("unknown mode")
)

// Classifier scores a [1, R, R, 3] input tensor, returning one score per
// label.
type Classifier interface {
	Predict(ctx context.Context, input imaging.Tensor) ([]float64, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, input imaging.Tensor) ([]float64, error)

// Predict implements Classifier.
func (f ClassifierFunc) Predict(ctx context.Context, input imaging.Tensor) ([]float64, error) {
	return f(ctx, input)
}

// Loader produces a Classifier for a model path.
type Loader interface {
	Load(ctx context.Context, path string) (Classifier, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) (Classifier, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, path string) (Classifier, error) {
	return f(ctx, path)
}

// StaticLoader serves pre-built classifiers keyed by path.
type StaticLoader map[string]Classifier

// Load implements Loader.
func (l StaticLoader) Load(ctx context.Context, path string) (Classifier, error) {
	c, ok := l[path]
	if !ok {
		return nil, errors.Errorf("no classifier registered for %q", path)
	}
	return c, nil
}

// SchemeLoader dispatches on the URL scheme of the model path.
type SchemeLoader map[string]Loader

// NewDefaultLoader returns a loader for ws:// and wss:// model servers.
func NewDefaultLoader() SchemeLoader {
	ws := &WebSocketLoader{}
	return SchemeLoader{"ws": ws, "wss": ws}
}

// Resolve returns the loader registered for path's scheme.
func (l SchemeLoader) Resolve(path string) (Loader, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid model path %q", path)
	}
	loader, ok := l[u.Scheme]
	if !ok {
		return nil, errors.Errorf("no loader for model path %q", path)
	}
	return loader, nil
}

// Load implements Loader.
func (l SchemeLoader) Load(ctx context.Context, path string) (Classifier, error) {
	loader, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, path)
}

// sameClassifier reports whether a and b are the same instance; loaders may
// hand out cached classifiers. Values of incomparable types never match.
func sameClassifier(a, b Classifier) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}

func closeClassifier(c Classifier) {
	if closer, ok := c.(io.Closer); ok {
		_ = closer.Close()
	}
}
