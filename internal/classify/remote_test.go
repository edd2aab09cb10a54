package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
)

// newModelServer starts a websocket model server that answers every tensor
// with reply(tensor).
func newModelServer(t *testing.T, reply func(imaging.Tensor) predictResponse) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				_ = conn.WriteJSON(predictResponse{Error: "expected binary tensor"})
				continue
			}
			tensor, err := DecodeTensor(msg)
			if err != nil {
				_ = conn.WriteJSON(predictResponse{Error: err.Error()})
				continue
			}
			b, _ := json.Marshal(reply(tensor))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testTensor() imaging.Tensor {
	data := make([]float32, 2*2*3)
	for i := range data {
		data[i] = float32(i) * 10
	}
	return imaging.Tensor{Shape: [4]int{1, 2, 2, 3}, Data: data}
}

func TestEncodeDecodeTensor(t *testing.T) {
	in := testTensor()
	b := EncodeTensor(in)
	assert.Len(t, b, 16+4*12)

	out, err := DecodeTensor(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeTensor_Invalid(t *testing.T) {
	_, err := DecodeTensor([]byte{1, 2, 3})
	assert.Error(t, err)

	b := EncodeTensor(testTensor())
	_, err = DecodeTensor(b[:len(b)-4])
	assert.Error(t, err)
}

func TestRemoteClassifier_Predict(t *testing.T) {
	url := newModelServer(t, func(in imaging.Tensor) predictResponse {
		if in.Shape != [4]int{1, 2, 2, 3} {
			return predictResponse{Error: "unexpected shape"}
		}
		return predictResponse{Scores: []float64{0.2, -0.1, 0.6}}
	})

	c, err := (&WebSocketLoader{}).Load(context.Background(), url)
	require.NoError(t, err)
	defer c.(*RemoteClassifier).Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	scores, err := c.Predict(ctx, testTensor())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, -0.1, 0.6}, scores)

	// The connection is reused for subsequent predictions.
	scores, err = c.Predict(ctx, testTensor())
	require.NoError(t, err)
	assert.Len(t, scores, 3)
}

func TestRemoteClassifier_ServerError(t *testing.T) {
	url := newModelServer(t, func(imaging.Tensor) predictResponse {
		return predictResponse{Error: "model not loaded"}
	})

	c, err := (&WebSocketLoader{}).Load(context.Background(), url)
	require.NoError(t, err)
	defer c.(*RemoteClassifier).Close()

	_, err = c.Predict(context.Background(), testTensor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestRemoteClassifier_CancelWithoutDeadline(t *testing.T) {
	// The server reads tensors and never answers.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	c, err := (&WebSocketLoader{}).Load(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer c.(*RemoteClassifier).Close()

	ctx, cancel := context.WithCancel(context.Background())
	_, hasDeadline := ctx.Deadline()
	require.False(t, hasDeadline)
	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		_, err := c.Predict(ctx, testTensor())
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Predict did not return after cancel")
	}

	_, err = c.Predict(ctx, testTensor())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWebSocketLoader_DialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := (&WebSocketLoader{}).Load(ctx, "ws://127.0.0.1:1/model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to model server")
}

func TestManager_WithRemoteModel(t *testing.T) {
	url := newModelServer(t, func(in imaging.Tensor) predictResponse {
		return predictResponse{Scores: []float64{0, 0.9, 0.1}}
	})

	catalog := Catalog{
		Advanced: {Mode: Advanced, Path: url, Resolution: 4, Labels: LabelSet{"x", "y", "z"}},
	}
	m := NewManager(NewDefaultLoader(), catalog)
	defer m.Close()

	require.NoError(t, recv(t, m.Switch(context.Background(), Advanced)))
	model, err := m.Active()
	require.NoError(t, err)

	ev, err := Evaluate(context.Background(), model, testImage())
	require.NoError(t, err)
	assert.Equal(t, Result{Label: "y", ConfidencePercent: 90, Recognized: true}, ev.Result)
}
