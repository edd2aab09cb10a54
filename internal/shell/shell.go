package shell

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/session"
)

// ShellCtxt is the state shared by all shell commands.
type ShellCtxt struct {
	Session    *session.Session
	Cache      *imaging.ImageCache
	JSONOutput bool
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[%s %s]>", ctx.Session.Mode(), ctx.Session.State())
}

func commands(ctx *ShellCtxt) []*ishell.Cmd {
	return []*ishell.Cmd{
		downCmd(ctx),
		moveCmd(ctx),
		upCmd(ctx),
		leaveCmd(ctx),
		clearCmd(ctx),
		evalCmd(ctx),
		classifyCmd(ctx),
		modeCmd(ctx),
		setCmd(ctx),
		statusCmd(ctx),
		exportCmd(ctx),
	}
}

// RunShell starts the interactive shell on sess. With args, the single
// command they form is run and the shell exits. jsonOutput prints results as
// JSON instead of text.
func RunShell(sess *session.Session, jsonOutput bool, args []string) error {
	ctx := &ShellCtxt{
		Session:    sess,
		Cache:      imaging.NewImageCache(),
		JSONOutput: jsonOutput,
	}

	shell := ishell.New()
	for _, cmd := range commands(ctx) {
		shell.AddCmd(cmd)
	}
	shell.SetPrompt(ctx.prompt())

	if len(args) > 0 {
		return shell.Process(args...)
	}

	opts := sess.Options()
	shell.Printf("Sketch classifier shell, mode: %s, stroke length: %v\n", sess.Mode(), opts.StrokeLength)
	shell.Run()
	return nil
}
