package main

import (
	"log"
	"os"

	"github.com/mitchellh/cli"
	"lab47.dev/esyopam/pkg/cmd"
)

func main() {
	c := cli.NewCLI("esyopam", "0.1.0")
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"config": func() (cli.Command, error) {
			return cmd.New(
				"config",
				"Show the publishing target and where rules are read from",
				configF,
			), nil
		},
		"allowed": func() (cli.Command, error) {
			return cmd.New(
				"allowed",
				"Check if a dependency edge survives conversion",
				allowedF,
			), nil
		},
		"blacklisted": func() (cli.Command, error) {
			return cmd.New(
				"blacklisted",
				"Check if a name.version is skipped entirely",
				blacklistedF,
			), nil
		},
		"depopt": func() (cli.Command, error) {
			return cmd.New(
				"depopt",
				"Check if an optional dependency is dropped",
				depoptF,
			), nil
		},
		"override": func() (cli.Command, error) {
			return cmd.New(
				"override",
				"Output the override record for a package",
				overrideF,
			), nil
		},
		"extra": func() (cli.Command, error) {
			return cmd.New(
				"extra",
				"Output the extra dependencies injected for a package",
				extraF,
			), nil
		},
		"explain": func() (cli.Command, error) {
			return cmd.New(
				"explain",
				"Apply the rules to a parsed opam package and show the result",
				explainF,
			), nil
		},
		"scan": func() (cli.Command, error) {
			return cmd.New(
				"scan",
				"List package versions in the opam repository and which are skipped",
				scanF,
			), nil
		},
		"debug": func() (cli.Command, error) {
			return cmd.New(
				"debug",
				"Dump the loaded rule tables",
				debugF,
			), nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		log.Println(err)
	}

	os.Exit(exitStatus)
}
