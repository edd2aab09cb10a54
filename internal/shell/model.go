package shell

import (
	"context"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/ironsheep/sketch-classifier/internal/classify"
)

func modeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "mode",
		Help: "switch the classifier: mode [basic|advanced], toggles without an argument",
		Completer: func([]string) []string {
			return []string{classify.Basic.String(), classify.Advanced.String()}
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) > 1 {
				c.Err(errUsage("mode [basic|advanced]"))
				return
			}

			bg := context.Background()
			var done <-chan error
			if len(c.Args) == 0 {
				done = ctx.Session.ToggleModel(bg)
			} else {
				mode, err := classify.ParseMode(c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				done = ctx.Session.ChangeModel(bg, mode)
			}

			c.Printf("loading %s model...\n", ctx.Session.Mode())
			if err := <-done; err != nil {
				c.Err(err)
				return
			}
			c.Printf("labels: %s\n", strings.Join(ctx.Session.Labels(), ", "))
			c.SetPrompt(ctx.prompt())
		},
	}
}

func setCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "set",
		Help: "change a setting: set stroke|rescaler|smoothing <value>",
		Completer: func(args []string) []string {
			if len(args) == 0 {
				return []string{"stroke", "rescaler", "smoothing"}
			}
			return []string{"on", "off"}
		},
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(errUsage("set stroke|rescaler|smoothing <value>"))
				return
			}

			opts, err := applySetting(ctx.Session.Options(), c.Args[0], c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			ctx.Session.Configure(opts)
			c.Println("OK")
		},
	}
}

func exportCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "export",
		Help: "write the image eval would classify as PNG: export [file]",
		Func: func(c *ishell.Context) {
			if len(c.Args) > 1 {
				c.Err(errUsage("export [file]"))
				return
			}

			res, err := ctx.Session.Export(0)
			if err != nil {
				c.Err(err)
				return
			}
			path := res.Filename
			if len(c.Args) == 1 {
				path = c.Args[0]
			}

			if err := writeExport(path, res); err != nil {
				c.Err(err)
				return
			}
			ctx.Cache.Evict(path)
			c.Printf("wrote %s (%dx%d)\n", path, res.Width, res.Height)
		},
	}
}
