package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sessionIDProperty is shared by every tool that acts on a session.
var sessionIDProperty = map[string]interface{}{
	"type":        "string",
	"description": "Session ID from sketch_session_new. Omit to use the default session",
}

func withSession(props map[string]interface{}) map[string]interface{} {
	props["session_id"] = sessionIDProperty
	return props
}

func pointProperties() map[string]interface{} {
	return withSession(map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "X coordinate on the canvas (0 = left edge)",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Y coordinate on the canvas (0 = top edge)",
		},
	})
}

func sessionOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": withSession(map[string]interface{}{}),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Sessions
		{
			Name:        "sketch_session_new",
			Description: "Create a new drawing session with two blank canvases (raw and smoothed) and start loading its classifier. Options not given use the server configuration.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"basic", "advanced"},
						"description": "Classifier to load: basic (10 labels) or advanced (21 labels)",
					},
					"stroke_length": map[string]interface{}{
						"type":        "number",
						"description": "Smoothing threshold in pixels. Default 15",
					},
					"rescaler_on": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop evaluation input to a square frame around the ink. Default true",
					},
					"smoothing_on": map[string]interface{}{
						"type":        "boolean",
						"description": "Record and evaluate the smoothed stroke instead of the raw one. Default false",
					},
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Block until the classifier has loaded. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "sketch_status",
			Description: "Report a session's drawing state (idle, drawing, idle_with_ink), bounding boxes, model state and options.",
			InputSchema: sessionOnlySchema(),
		},

		// Pointer Events
		{
			Name:        "sketch_pointer_down",
			Description: "Press the pointer at (x, y). Nothing is drawn until the pointer moves. The bounding box persists across strokes.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pointProperties(),
				"required":   []string{"x", "y"},
			},
		},
		{
			Name:        "sketch_pointer_move",
			Description: "Move the pressed pointer to (x, y), or along a path of points in order. Each move draws a segment on the raw canvas; with smoothing on, the smoothed canvas only commits moves of at least stroke_length pixels. Ignored while the pointer is up.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate of a single move",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate of a single move",
					},
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Path of moves applied in order, after x/y if both are given",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
					},
				}),
			},
		},
		{
			Name:        "sketch_pointer_up",
			Description: "Release the pointer, ending the current stroke.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "sketch_pointer_leave",
			Description: "The pointer left the canvas. Ends the current stroke like sketch_pointer_up.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "sketch_clear",
			Description: "Blank both canvases and reset the bounding boxes. The loaded classifier is kept.",
			InputSchema: sessionOnlySchema(),
		},

		// Classification
		{
			Name:        "sketch_evaluate",
			Description: "Classify the current sketch. Returns the best label with a relative confidence (its share of all positive scores, not a probability) and the positive-scoring candidates. Returns 'Not recognised' when there is no ink or no positive score. Fails if the classifier is not loaded unless wait is set.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Wait for an in-flight model load before evaluating. Default false",
						"default":     false,
					},
				}),
			},
		},
		{
			Name:        "sketch_change_model",
			Description: "Switch the classifier and its label set together. Ink is untouched. A later switch supersedes one still loading. Without mode, toggles between basic and advanced.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"basic", "advanced"},
						"description": "Mode to load. Omit to toggle",
					},
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Block until the model has loaded. Default false",
						"default":     false,
					},
				}),
			},
		},
		{
			Name:        "sketch_configure",
			Description: "Change a session's stroke length, cropping or smoothing. Unset fields keep their current value. Existing ink is kept.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"stroke_length": map[string]interface{}{
						"type":        "number",
						"description": "Smoothing threshold in pixels (must be positive)",
					},
					"rescaler_on": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop evaluation input to a square frame around the ink",
					},
					"smoothing_on": map[string]interface{}{
						"type":        "boolean",
						"description": "Record and evaluate the smoothed stroke",
					},
				}),
			},
		},
		{
			Name:        "sketch_export",
			Description: "Export the image that sketch_evaluate would classify as base64 PNG. The filename reflects the active stages: image[_smo][_re].png.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Shrink the image to fit within this many pixels. 0 keeps the original size",
						"default":     0,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Also write the PNG to this file",
					},
				}),
			},
		},

		// Saved Sketches
		{
			Name:        "sketch_classify_image",
			Description: "Classify a saved sketch image file with the session's classifier. The image is resized to the model resolution without cropping.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG, JPEG or GIF file",
					},
					"wait": map[string]interface{}{
						"type":        "boolean",
						"description": "Wait for an in-flight model load first. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "sketch_classify_images",
			Description: "Classify several saved sketch files in parallel. Results are returned in input order. Fails if any file cannot be classified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSession(map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to image files",
					},
				}),
				"required": []string{"paths"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
