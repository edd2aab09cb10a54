package shell

import (
	"encoding/json"
	"os"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/session"
	"github.com/ironsheep/sketch-classifier/internal/stroke"
)

// StatusJSON is the status command's JSON output.
type StatusJSON struct {
	State       string             `json:"state"`
	Mode        string             `json:"mode"`
	ModelState  string             `json:"model_state"`
	Options     session.Options    `json:"options"`
	RawBox      stroke.BoundingBox `json:"raw_box"`
	SmoothedBox stroke.BoundingBox `json:"smoothed_box"`
}

func status(ctx *ShellCtxt) StatusJSON {
	raw, smoothed := ctx.Session.Boxes()
	return StatusJSON{
		State:       ctx.Session.State().String(),
		Mode:        ctx.Session.Mode().String(),
		ModelState:  ctx.Session.ModelState().String(),
		Options:     ctx.Session.Options(),
		RawBox:      raw,
		SmoothedBox: smoothed,
	}
}

func describeBox(b stroke.BoundingBox) string {
	if b.Empty() {
		return "empty"
	}
	return b.Rect().String()
}

func statusCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "status",
		Help: "show drawing state, model and settings",
		Func: func(c *ishell.Context) {
			st := status(ctx)
			if ctx.JSONOutput {
				output, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(output))
				return
			}

			c.Printf("state:        %s\n", st.State)
			c.Printf("model:        %s (%s)\n", st.Mode, st.ModelState)
			c.Printf("stroke:       %v\n", st.Options.StrokeLength)
			c.Printf("rescaler:     %v\n", st.Options.RescalerOn)
			c.Printf("smoothing:    %v\n", st.Options.SmoothingOn)
			c.Printf("raw box:      %s\n", describeBox(st.RawBox))
			c.Printf("smoothed box: %s\n", describeBox(st.SmoothedBox))
		},
	}
}

func writeExport(path string, res *imaging.ExportResult) error {
	data, err := res.Bytes()
	if err != nil {
		return errors.Wrap(err, "failed to decode export")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write %s", path)
}
