package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches to the subcommands and returns the process exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	// automaxprocs respects container CPU quotas. Error ignored: Set only
	// fails on an invalid GOMAXPROCS env value, in which case runtime
	// defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	switch args[0] {
	case "convert":
		return runConvertCmd(args[1:], env)
	case "watch":
		return runWatchCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "mark2doc %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}
