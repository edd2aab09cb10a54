package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/session"
	"github.com/ironsheep/sketch-classifier/internal/stroke"
)

const (
	// waitTimeout bounds how long a tool call blocks on a model load.
	waitTimeout = 30 * time.Second

	// callTimeout bounds a whole tool call, including remote predictions.
	callTimeout = 60 * time.Second

	// classifyConcurrency limits parallel file classifications.
	classifyConcurrency = 4
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "sketch_pointer_move", "sketch_evaluate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Resolves the session (default session when session_id is omitted)
//  3. Calls the session operation
//  4. Returns a snapshot of the resulting session state or the error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Sessions
	case "sketch_session_new":
		return s.handleSessionNew(ctx, args)
	case "sketch_status":
		return s.handleStatus(args)

	// Pointer Events
	case "sketch_pointer_down":
		return s.handlePointerDown(args)
	case "sketch_pointer_move":
		return s.handlePointerMove(args)
	case "sketch_pointer_up":
		return s.handlePointerUp(args)
	case "sketch_pointer_leave":
		return s.handlePointerLeave(args)
	case "sketch_clear":
		return s.handleClear(args)

	// Classification
	case "sketch_evaluate":
		return s.handleEvaluate(ctx, args)
	case "sketch_change_model":
		return s.handleChangeModel(ctx, args)
	case "sketch_configure":
		return s.handleConfigure(args)
	case "sketch_export":
		return s.handleExport(args)

	// Saved Sketches
	case "sketch_classify_image":
		return s.handleClassifyImage(ctx, args)
	case "sketch_classify_images":
		return s.handleClassifyImages(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// logLoad reports the outcome of a background model load.
func logLoad(id string, loaded <-chan error) {
	err := <-loaded
	switch {
	case err == nil:
		log.Trace.Printf("session %s: model ready", id)
	case errors.Is(err, classify.ErrSuperseded):
		log.Trace.Printf("session %s: %v", id, err)
	default:
		log.Warning.Printf("session %s: %v", id, err)
	}
}

// awaitLoad blocks until loaded reports or waitTimeout elapses.
func awaitLoad(ctx context.Context, loaded <-chan error) error {
	ctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	select {
	case err := <-loaded:
		return err
	case <-ctx.Done():
		return fmt.Errorf("model still loading: %w", ctx.Err())
	}
}

// === Result Types ===

// SketchState is a snapshot of a session after a tool call.
type SketchState struct {
	SessionID        string              `json:"session_id"`
	State            string              `json:"state"`
	RawBox           *stroke.BoundingBox `json:"raw_box,omitempty"`
	SmoothedBox      *stroke.BoundingBox `json:"smoothed_box,omitempty"`
	RawSegments      int                 `json:"raw_segments"`
	SmoothedSegments int                 `json:"smoothed_segments"`
}

// StatusResult extends SketchState with model and option details.
type StatusResult struct {
	SketchState
	Mode       string          `json:"mode"`
	ModelState string          `json:"model_state"`
	Ready      bool            `json:"ready"`
	Labels     []string        `json:"labels"`
	Options    session.Options `json:"options"`
}

// EvaluateResult is the outcome of classifying a sketch.
type EvaluateResult struct {
	SessionID         string               `json:"session_id,omitempty"`
	Path              string               `json:"path,omitempty"`
	Result            string               `json:"result"`
	Label             string               `json:"label,omitempty"`
	ConfidencePercent int                  `json:"confidence_percent"`
	Recognized        bool                 `json:"recognized"`
	Mode              string               `json:"mode"`
	Candidates        []classify.Candidate `json:"candidates,omitempty"`
}

// ModelResult reports the model state after a change.
type ModelResult struct {
	SessionID  string   `json:"session_id"`
	Mode       string   `json:"mode"`
	ModelState string   `json:"model_state"`
	Labels     []string `json:"labels"`
}

// ClassifyImagesResult holds one EvaluateResult per input path, in order.
type ClassifyImagesResult struct {
	Results []EvaluateResult `json:"results"`
}

func sketchState(id string, sess *session.Session) SketchState {
	st := SketchState{SessionID: id, State: sess.State().String()}
	raw, smoothed := sess.Boxes()
	if !raw.Empty() {
		st.RawBox = &raw
	}
	if !smoothed.Empty() {
		st.SmoothedBox = &smoothed
	}
	st.RawSegments, st.SmoothedSegments = sess.Segments()
	return st
}

func statusOf(id string, sess *session.Session) StatusResult {
	return StatusResult{
		SketchState: sketchState(id, sess),
		Mode:        sess.Mode().String(),
		ModelState:  sess.ModelState().String(),
		Ready:       sess.Ready(),
		Labels:      sess.Labels(),
		Options:     sess.Options(),
	}
}

func modelResult(id string, sess *session.Session) ModelResult {
	return ModelResult{
		SessionID:  id,
		Mode:       sess.Mode().String(),
		ModelState: sess.ModelState().String(),
		Labels:     sess.Labels(),
	}
}

func evaluateResult(ev classify.Evaluation) EvaluateResult {
	return EvaluateResult{
		Result:            ev.Result.String(),
		Label:             ev.Result.Label,
		ConfidencePercent: ev.Result.ConfidencePercent,
		Recognized:        ev.Result.Recognized,
		Mode:              ev.Mode.String(),
		Candidates:        ev.Candidates,
	}
}

// === Session Handlers ===

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type sessionNewArgs struct {
	Mode         string   `json:"mode"`
	StrokeLength *float64 `json:"stroke_length"`
	RescalerOn   *bool    `json:"rescaler_on"`
	SmoothingOn  *bool    `json:"smoothing_on"`
	Wait         bool     `json:"wait"`
}

func (s *Server) handleSessionNew(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sessionNewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.cfg
	if a.Mode != "" {
		mode, err := classify.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode.String()
	}
	if a.StrokeLength != nil {
		cfg.StrokeLength = *a.StrokeLength
	}
	if a.RescalerOn != nil {
		cfg.RescalerOn = *a.RescalerOn
	}
	if a.SmoothingOn != nil {
		cfg.SmoothingOn = *a.SmoothingOn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id, sess, loaded := s.newSession(cfg)
	if a.Wait {
		if err := awaitLoad(ctx, loaded); err != nil {
			return nil, err
		}
	} else {
		go logLoad(id, loaded)
	}
	return statusOf(id, sess), nil
}

func (s *Server) handleStatus(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	return statusOf(id, sess), nil
}

// === Pointer Event Handlers ===

type pointArgs struct {
	SessionID string `json:"session_id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

type pointMoveArgs struct {
	SessionID string `json:"session_id"`
	X         *int   `json:"x"`
	Y         *int   `json:"y"`
	Points    []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
}

func (s *Server) handlePointerDown(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess.PointerDown(image.Pt(a.X, a.Y))
	return sketchState(id, sess), nil
}

func (s *Server) handlePointerMove(args json.RawMessage) (interface{}, error) {
	var a pointMoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var path []image.Point
	if a.X != nil && a.Y != nil {
		path = append(path, image.Pt(*a.X, *a.Y))
	} else if a.X != nil || a.Y != nil {
		return nil, fmt.Errorf("both x and y are required for a single point")
	}
	for _, p := range a.Points {
		path = append(path, image.Pt(p.X, p.Y))
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("no points given: pass x and y or points")
	}

	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	for _, p := range path {
		sess.PointerMove(p)
	}
	return sketchState(id, sess), nil
}

func (s *Server) handlePointerUp(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess.PointerUp()
	return sketchState(id, sess), nil
}

func (s *Server) handlePointerLeave(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess.PointerLeave()
	return sketchState(id, sess), nil
}

func (s *Server) handleClear(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}
	sess.Clear()
	return sketchState(id, sess), nil
}

// === Classification Handlers ===

type evaluateArgs struct {
	SessionID string `json:"session_id"`
	Wait      bool   `json:"wait"`
}

func (s *Server) handleEvaluate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a evaluateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	if a.Wait {
		wctx, cancel := context.WithTimeout(ctx, waitTimeout)
		defer cancel()
		if err := sess.WaitReady(wctx); err != nil {
			return nil, fmt.Errorf("failed to wait for model: %w", err)
		}
	}

	ev, err := sess.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	res := evaluateResult(ev)
	res.SessionID = id
	return res, nil
}

type changeModelArgs struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	Wait      bool   `json:"wait"`
}

func (s *Server) handleChangeModel(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a changeModelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	var loaded <-chan error
	if a.Mode == "" {
		loaded = sess.ToggleModel(context.Background())
	} else {
		mode, err := classify.ParseMode(a.Mode)
		if err != nil {
			return nil, err
		}
		loaded = sess.ChangeModel(context.Background(), mode)
	}

	if a.Wait {
		if err := awaitLoad(ctx, loaded); err != nil {
			return nil, err
		}
	} else {
		go logLoad(id, loaded)
	}
	return modelResult(id, sess), nil
}

type configureArgs struct {
	SessionID    string   `json:"session_id"`
	StrokeLength *float64 `json:"stroke_length"`
	RescalerOn   *bool    `json:"rescaler_on"`
	SmoothingOn  *bool    `json:"smoothing_on"`
}

func (s *Server) handleConfigure(args json.RawMessage) (interface{}, error) {
	var a configureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	id, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	opts := sess.Options()
	if a.StrokeLength != nil {
		if *a.StrokeLength <= 0 {
			return nil, fmt.Errorf("stroke_length must be positive, got %v", *a.StrokeLength)
		}
		opts.StrokeLength = *a.StrokeLength
	}
	if a.RescalerOn != nil {
		opts.RescalerOn = *a.RescalerOn
	}
	if a.SmoothingOn != nil {
		opts.SmoothingOn = *a.SmoothingOn
	}
	sess.Configure(opts)
	return statusOf(id, sess), nil
}

type exportArgs struct {
	SessionID  string `json:"session_id"`
	MaxSize    int    `json:"max_size"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Export(a.MaxSize)
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		data, err := res.Bytes()
		if err != nil {
			return nil, fmt.Errorf("failed to decode export: %w", err)
		}
		if err := os.WriteFile(a.OutputPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write export: %w", err)
		}
		s.cache.Evict(a.OutputPath)
		log.Info.Printf("exported %s to %s", res.Filename, a.OutputPath)
	}
	return res, nil
}

// === Saved Sketch Handlers ===

type classifyImageArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
	Wait      bool   `json:"wait"`
}

func (s *Server) handleClassifyImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a classifyImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	if a.Wait {
		wctx, cancel := context.WithTimeout(ctx, waitTimeout)
		defer cancel()
		if err := sess.WaitReady(wctx); err != nil {
			return nil, fmt.Errorf("failed to wait for model: %w", err)
		}
	}
	return s.classifyFile(ctx, sess, a.Path)
}

type classifyImagesArgs struct {
	SessionID string   `json:"session_id"`
	Paths     []string `json:"paths"`
}

func (s *Server) handleClassifyImages(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a classifyImagesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}
	_, sess, err := s.lookupSession(a.SessionID)
	if err != nil {
		return nil, err
	}

	results := make([]EvaluateResult, len(a.Paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i, path := range a.Paths {
		i, path := i, path
		g.Go(func() error {
			res, err := s.classifyFile(gctx, sess, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ClassifyImagesResult{Results: results}, nil
}

func (s *Server) classifyFile(ctx context.Context, sess *session.Session, path string) (EvaluateResult, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("%s: %w", path, err)
	}
	ev, err := sess.ClassifyImage(ctx, img)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("%s: %w", path, err)
	}
	res := evaluateResult(ev)
	res.Path = path
	return res, nil
}
