package main

import (
	"flag"
	"fmt"
	"strings"
)

// printFlags prints flag definitions with double-dash prefix (--flag)
// instead of Go's default single-dash (-flag)
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		// Format: --name type
		//             description (default: value)
		var typeStr string
		switch f.DefValue {
		case "false", "true":
			typeStr = "" // boolean flags don't show type
		default:
			typeStr = " " + flagTypeName(f)
		}

		fmt.Printf("  --%s%s\n", f.Name, typeStr)
		fmt.Printf("      %s", f.Usage)
		if f.DefValue != "" && f.DefValue != "false" {
			fmt.Printf(" (default: %s)", f.DefValue)
		}
		fmt.Println()
	})
}

// flagTypeName returns a human-readable type name for the flag
func flagTypeName(f *flag.Flag) string {
	// Check the default value to infer type
	if f.DefValue == "0" || strings.HasPrefix(f.DefValue, "-") || isNumeric(f.DefValue) {
		return "int"
	}
	if f.DefValue == "0s" || strings.HasSuffix(f.DefValue, "s") || strings.HasSuffix(f.DefValue, "m") || strings.HasSuffix(f.DefValue, "h") {
		return "duration"
	}
	return "string"
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// reorderArgs moves flags ahead of positional arguments so that
// "convert a.json --output out" parses like "convert --output out a.json".
// Values of non-boolean flags defined in fs stay attached to their flag.
// Everything after "--" is kept positional.
func reorderArgs(fs *flag.FlagSet, args []string) []string {
	flags := make([]string, 0, len(args))
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}

		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if takesValue(fs, name) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}

	return append(flags, positional...)
}

func takesValue(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}
