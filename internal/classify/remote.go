package classify

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/log"
)

// WebSocketLoader connects to a model server. The model path is the
// server's ws:// or wss:// URL; loading a model means dialing it.
type WebSocketLoader struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// Load implements Loader.
func (l *WebSocketLoader) Load(ctx context.Context, path string) (Classifier, error) {
	dialer := l.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	log.Trace.Printf("connecting to model server %s", path)
	conn, _, err := dialer.DialContext(ctx, path, l.Header)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to model server %s", path)
	}
	return &RemoteClassifier{conn: conn}, nil
}

// RemoteClassifier runs predictions on a model server over one websocket.
//
// Each Predict sends one binary message holding the encoded tensor and
// reads one JSON reply:
//
//	{"scores": [0.2, -0.1, 0.6]}
//	{"error": "model not loaded"}
//
// Requests on one connection are serialized. Cancelling a Predict's context
// aborts the exchange and leaves the connection unusable.
type RemoteClassifier struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

type predictResponse struct {
	Scores []float64 `json:"scores"`
	Error  string    `json:"error,omitempty"`
}

// Predict implements Classifier.
func (r *RemoteClassifier) Predict(ctx context.Context, input imaging.Tensor) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline, _ := ctx.Deadline()
	if err := r.conn.SetWriteDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "failed to set write deadline")
	}
	if err := r.conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Wrap(err, "failed to set read deadline")
	}

	// Deadlines only cover ctx.Deadline; cancellation has to interrupt a
	// blocked read or write on the socket itself. Registered after the
	// deadlines above so they cannot undo it.
	aborted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(aborted)
		_ = r.conn.NetConn().SetDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			<-aborted
		}
	}()

	if err := r.conn.WriteMessage(websocket.BinaryMessage, EncodeTensor(input)); err != nil {
		return nil, interrupted(ctx, err, "failed to send tensor")
	}

	_, msg, err := r.conn.ReadMessage()
	if err != nil {
		return nil, interrupted(ctx, err, "failed to read scores")
	}

	var resp predictResponse
	if err := json.Unmarshal(msg, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode scores")
	}
	if resp.Error != "" {
		return nil, errors.Errorf("model server: %s", resp.Error)
	}
	return resp.Scores, nil
}

// interrupted reports ctx's error in place of the socket error it caused.
func interrupted(ctx context.Context, err error, msg string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(ctxErr, msg)
	}
	return errors.Wrap(err, msg)
}

// Close sends a close frame and closes the connection.
func (r *RemoteClassifier) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = r.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return r.conn.Close()
}

// EncodeTensor serializes a tensor as four little-endian uint32 shape
// dimensions followed by little-endian float32 data.
func EncodeTensor(t imaging.Tensor) []byte {
	buf := make([]byte, 16+4*len(t.Data))
	for i, d := range t.Shape {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(d))
	}
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeTensor is the inverse of EncodeTensor.
func DecodeTensor(b []byte) (imaging.Tensor, error) {
	if len(b) < 16 {
		return imaging.Tensor{}, errors.Errorf("tensor payload too short: %d bytes", len(b))
	}

	var t imaging.Tensor
	for i := range t.Shape {
		t.Shape[i] = int(binary.LittleEndian.Uint32(b[i*4:]))
	}

	n := t.Len()
	if len(b) != 16+4*n {
		return imaging.Tensor{}, errors.Errorf("tensor payload is %d bytes, shape %v needs %d", len(b), t.Shape, 16+4*n)
	}

	t.Data = make([]float32, n)
	for i := range t.Data {
		t.Data[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[16+i*4:]))
	}
	return t, nil
}
