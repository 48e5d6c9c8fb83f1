package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: inkpress new <project-name>")
			os.Exit(1)
		}
		if err := runNew(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: inkpress import <dir>")
			os.Exit(1)
		}
		if err := runImport(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		out := ""
		if len(os.Args) > 2 {
			out = os.Args[2]
		}
		if err := runCheck(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("inkpress %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`inkpress - A blog publishing engine built with Go, Echo, and templ

Usage:
  inkpress <command> [arguments]

Commands:
  new <name>      Create a new inkpress project
  serve           Run the blog server with the built-in theme
  import <dir>    Import Markdown posts with YAML front matter into the blog database
  check [file]    Probe every outbound link in published posts and write a Markdown report
  version         Print the inkpress version
  help            Show this help message

Examples:
  inkpress new myblog
  inkpress new github.com/user/myblog
  inkpress import _posts/
  inkpress check link-report.md`)
}
