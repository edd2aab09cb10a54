package shell

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/ironsheep/sketch-classifier/internal/session"
)

func errUsage(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

// parsePoints reads "x y [x y ...]" into points.
func parsePoints(args []string) ([]image.Point, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errors.New("expected x y pairs")
	}

	points := make([]image.Point, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid x %q", args[i])
		}
		y, err := strconv.Atoi(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid y %q", args[i+1])
		}
		points = append(points, image.Pt(x, y))
	}
	return points, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// applySetting returns opts with the named setting changed.
func applySetting(opts session.Options, name, value string) (session.Options, error) {
	switch name {
	case "stroke":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("stroke length must be a positive number, got %q", value)
		}
		opts.StrokeLength = n
	case "rescaler":
		on, err := parseSwitch(value)
		if err != nil {
			return opts, fmt.Errorf("rescaler: %q is not on or off", value)
		}
		opts.RescalerOn = on
	case "smoothing":
		on, err := parseSwitch(value)
		if err != nil {
			return opts, fmt.Errorf("smoothing: %q is not on or off", value)
		}
		opts.SmoothingOn = on
	default:
		return opts, fmt.Errorf("unknown setting %q (stroke, rescaler, smoothing)", name)
	}
	return opts, nil
}
