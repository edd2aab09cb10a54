package shell

import (
	"github.com/abiosoft/ishell"
)

func downCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "down",
		Help: "press the pointer: down x y",
		Func: func(c *ishell.Context) {
			points, err := parsePoints(c.Args)
			if err != nil || len(points) != 1 {
				c.Err(errUsage("down x y"))
				return
			}
			ctx.Session.PointerDown(points[0])
			c.SetPrompt(ctx.prompt())
		},
	}
}

func moveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "move",
		Help: "move the pressed pointer along a path: move x y [x y ...]",
		Func: func(c *ishell.Context) {
			points, err := parsePoints(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			for _, p := range points {
				ctx.Session.PointerMove(p)
			}
			raw, smoothed := ctx.Session.Segments()
			c.Printf("segments: raw %d, smoothed %d\n", raw, smoothed)
			c.SetPrompt(ctx.prompt())
		},
	}
}

func upCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "up",
		Help: "release the pointer",
		Func: func(c *ishell.Context) {
			ctx.Session.PointerUp()
			c.SetPrompt(ctx.prompt())
		},
	}
}

func leaveCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "leave",
		Help: "the pointer leaves the canvas",
		Func: func(c *ishell.Context) {
			ctx.Session.PointerLeave()
			c.SetPrompt(ctx.prompt())
		},
	}
}

func clearCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "clear",
		Help: "blank both canvases",
		Func: func(c *ishell.Context) {
			ctx.Session.Clear()
			c.SetPrompt(ctx.prompt())
		},
	}
}
