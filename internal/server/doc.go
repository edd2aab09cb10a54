// Package server implements the MCP (Model Context Protocol) server for the
// sketch classifier.
//
// This package provides a JSON-RPC 2.0 server that lets an MCP client draw
// on a sketch canvas with pointer events and classify the result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Sessions:
//   - sketch_session_new: Create a session with its own canvases and model
//   - sketch_status: Drawing state, bounding boxes, model state, options
//
// Pointer Events:
//   - sketch_pointer_down, sketch_pointer_move, sketch_pointer_up,
//     sketch_pointer_leave: Drive the stroke tracker and smoother
//   - sketch_clear: Blank both canvases
//
// Classification:
//   - sketch_evaluate: Classify the current ink
//   - sketch_change_model: Switch between the basic and advanced models
//   - sketch_configure: Stroke length, cropping and smoothing toggles
//   - sketch_export: PNG of the frame that would be classified
//
// Saved Sketches:
//   - sketch_classify_image: Classify one image file
//   - sketch_classify_images: Classify several files in parallel
//
// # Sessions
//
// Every tool takes an optional session_id. Calls without one share a default
// session that is created, and starts loading its model, on first use.
// Model loads run in the background; evaluate and classify calls fail with
// "classifier not ready" until the load finishes unless they pass wait.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg, classify.NewDefaultLoader())
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
