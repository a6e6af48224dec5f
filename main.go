package main

import (
	"orbiter/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// orbiter is a personal payload installer driven by a YAML file of payloads:
//   - Each payload names a resource (a URL, a git repository or a release asset) that may
//     differ per OS and CPU architecture, plus optional init/extract/install hooks that may
//     differ per shell and OS
//   - `orbiter init <shell>` installs every payload not installed yet into
//     ~/.orbiter/payloads/<id>/current and exposes its executable in ~/.orbiter/dashboard/bin
//   - It then prints the directives the shell evaluates: the PATH export, the `source`
//     lines of each payload's src files and each payload's load snippet
//   - `orbiter update <id>` archives an install so the next init installs it again
//
// Error handling strategy:
//   - A failing payload is logged and skipped so the rest of the shell setup still happens
//   - Logs go to stderr; stdout carries only shell directives
func main() {
	cmd.Execute()
}
