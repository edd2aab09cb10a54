package shell

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/abiosoft/ishell"

	"github.com/ironsheep/sketch-classifier/internal/classify"
)

func printEvaluation(ctx *ShellCtxt, c *ishell.Context, name string, ev classify.Evaluation) error {
	if ctx.JSONOutput {
		output, err := json.MarshalIndent(ev, "", "  ")
		if err != nil {
			return err
		}
		c.Println(string(output))
		return nil
	}

	if name != "" {
		c.Printf("%s: ", name)
	}
	c.Println(ev.Result.String())
	for _, cand := range ev.Candidates {
		c.Printf("  %-12s %6.3f  %3.0f%%\n", cand.Label, cand.Score, cand.Share*100)
	}
	return nil
}

func evalCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "eval",
		Help: "classify the current sketch",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("eval", flag.ContinueOnError)
			wait := flagSet.Bool("w", false, "wait for a model load in progress")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}

			bg := context.Background()
			if *wait {
				if err := ctx.Session.WaitReady(bg); err != nil {
					c.Err(err)
					return
				}
			}

			ev, err := ctx.Session.Evaluate(bg)
			if err != nil {
				c.Err(err)
				return
			}
			if err := printEvaluation(ctx, c, "", ev); err != nil {
				c.Err(err)
			}
		},
	}
}

func classifyCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "classify",
		Help: "classify saved sketch files: classify file [file ...]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errUsage("classify file [file ...]"))
				return
			}

			bg := context.Background()
			for _, path := range c.Args {
				img, err := ctx.Cache.Load(path)
				if err != nil {
					c.Err(err)
					return
				}
				ev, err := ctx.Session.ClassifyImage(bg, img)
				if err != nil {
					c.Err(err)
					return
				}
				if err := printEvaluation(ctx, c, path, ev); err != nil {
					c.Err(err)
					return
				}
			}
		},
	}
}
