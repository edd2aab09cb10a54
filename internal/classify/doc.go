// Package classify turns a normalized sketch frame into a labeled result.
//
// The classifier itself is opaque: anything implementing Classifier that maps
// a [1, R, R, 3] float32 tensor to one score per label. Loaders produce
// classifiers from model paths; WebSocketLoader talks to a model server.
//
// # Modes
//
// A Mode (Basic or Advanced) selects a ModelSpec: model path, input
// resolution and LabelSet. Manager swaps the classifier and label set as one
// Model, so a score vector is never read against another model's labels.
// Manager exposes an explicit Idle/Loading/Ready state; evaluation is only
// possible when Ready.
//
// # Confidence
//
// Score uses a positive-sum rule rather than softmax: the winning score is
// divided by the sum of all positive scores. Raw scores at or below zero
// count as no evidence. The percentage is a relative confidence heuristic,
// not a calibrated probability.
package classify
