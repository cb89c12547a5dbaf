package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/pavanmanishd/framearena"
)

// scenarioCommand pushes nested scopes into a dictionary and dumps it after
// every push.
type scenarioCommand struct {
	g     *globals
	quiet *bool
}

func (cmd *scenarioCommand) run(_ *kingpin.ParseContext) error {
	blockSize, opts, err := cmd.g.options(framearena.ValidateDict[string, int])
	if err != nil {
		return err
	}
	env := framearena.NewDict[string, int](blockSize, opts...)
	defer env.Release()

	bold := color.New(color.Bold)
	push := func(d *framearena.Dict[string, int], key string, value int) {
		d.Push(key, value)
		if *cmd.quiet {
			return
		}
		bold.Printf("push %s=%d\n", key, value)
		if err := d.Dump(os.Stdout); err != nil {
			exitWithErr(err)
		}
	}

	push(env, "I", 1)
	push(env, "II", 2)
	push(env, "III", 3)
	env.Run(func(env *framearena.Dict[string, int]) {
		push(env, "a", 10)
		push(env, "b", 20)
		env.Run(func(env *framearena.Dict[string, int]) {
			push(env, "1", 100)
			push(env, "2", 200)
			push(env, "3", 300)
			push(env, "4", 400)
			push(env, "5", 500)
		})
		push(env, "c", 30)
	})
	push(env, "IV", 4)
	push(env, "V", 5)
	push(env, "VI", 6)

	bold.Println("final stack:")
	return env.Dump(os.Stdout)
}

func addScenarioCommand(app *kingpin.Application, g *globals) {
	cmd := &scenarioCommand{g: g}
	c := app.Command("scenario", "Run the nested-scope dictionary scenario.").Default().Action(cmd.run)
	cmd.quiet = c.Flag("quiet", "Only dump the final stack.").Bool()
}
