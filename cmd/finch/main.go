// Command finch compiles Finch source into bytecode and runs it on the
// fiber-scheduling virtual machine in package vm.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/xbee/finch/host"
	"github.com/xbee/finch/interpreter"
	"github.com/xbee/finch/repl"
)

const version = "0.1.0"

// printUsage displays custom usage information.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `Finch v%s

USAGE:
    %s [OPTIONS] [files...]

DESCRIPTION:
    Finch compiles source into bytecode and runs it on a fiber-scheduling
    virtual machine. Without any flags or file arguments, it starts an
    interactive REPL (Read-Eval-Print-Loop).

OPTIONS:
    -f, --file <path>       Execute a Finch script file
    -e, --eval <code>       Evaluate a Finch expression and print the result
    -d, --debug             Enable debug mode with more verbose output
    -v, --version           Show version information
    -h, --help              Show this help message

EXAMPLES:
    # Start interactive REPL
    %s

    # Execute a script file
    %s -f script.finch
    %s --file script.finch

    # Execute one or more script files given as positional arguments
    %s script.finch other.finch

    # Evaluate an expression
    %s -e "1 + 2"

    # Execute with debug mode
    %s -f script.finch -d

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Execute a Finch script file")
	evalFlag := flag.String("eval", "", "Evaluate a Finch expression and print the result")
	debugFlag := flag.Bool("debug", false, "Enable debug mode with more verbose output")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Execute a Finch script file")
	flag.StringVar(evalFlag, "e", "", "Evaluate a Finch expression and print the result")
	flag.BoolVar(debugFlag, "d", false, "Enable debug mode with more verbose output")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("Finch v%s\n", version)
		return
	}

	files := flag.Args()
	if *fileFlag != "" {
		files = append([]string{*fileFlag}, files...)
	}

	if len(files) > 0 {
		failed := false
		for _, file := range files {
			if !executeFile(file, *debugFlag) {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	if *evalFlag != "" {
		evaluateExpression(*evalFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	fmt.Println("Hello", username+",", "welcome to Finch!")
	fmt.Println("Feel free to type in Finch code. (Ctrl+D or Ctrl+C to exit)")

	repl.Start(username, repl.Options{Debug: *debugFlag})
}

// executeFile reads and executes a Finch script file, returning false if
// the file could not be read or compiled, or if a top-level error was
// reported through the host while it ran.
func executeFile(filename string, debug bool) bool {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		fmt.Printf("Error getting absolute path: %s\n", err)
		return false
	}
	if debug {
		fmt.Printf("Executing file: %s\n", absolute)
	}

	//nolint:gosec // not reading untrusted user input here
	content, err := os.ReadFile(absolute)
	if err != nil {
		fmt.Printf("Error reading file: %s\n", err)
		return false
	}

	h := host.NewConsole(os.Stdout, os.Stderr, filepath.Dir(absolute))
	in := interpreter.New(h)

	result, err := in.Run(string(content))
	if err != nil {
		fmt.Printf("Compilation error: %s\n", err)
		return false
	}

	if debug && result != nil {
		fmt.Println(result.Display())
	}

	return !h.Errored()
}

// evaluateExpression evaluates a single Finch expression and prints its
// result.
func evaluateExpression(expr string) {
	h := host.NewConsole(os.Stdout, os.Stderr, "")
	in := interpreter.New(h)

	result, err := in.Run(expr)
	if err != nil {
		fmt.Printf("Compilation error: %s\n", err)
		os.Exit(1)
	}

	if result != nil {
		fmt.Println(result.Display())
	}

	if h.Errored() {
		os.Exit(1)
	}
}
