// Command dartctl maintains the local company directory and queries OpenDART
// from the terminal. It also serves the MCP tools over stdio.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	env := newEnv(os.Stdout)

	flag.Var(&env.configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.StringVar(&env.envFile, "env", ".env", "dotenv file with OPEN_DART_API_KEY / GEMINI_API_KEY")

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
