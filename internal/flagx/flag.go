// Package flagx extracts a handful of well-known flags from os.Args without
// interfering with flags owned by other components.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// the next token is a value unless it looks like another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// lookupString parses a single string flag known under several names from
// os.Args. The last occurrence wins; missing flags yield "".
func lookupString(names ...string) string {
	var value string

	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		allowed = append(allowed, "-"+n)
		fs.StringVar(&value, n, "", "")
	}

	_ = fs.Parse(FilterArgs(os.Args[1:], allowed))
	return value
}

// JsonConfigFlags returns the config file path given via -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return lookupString("config", "c")
}

// EnvFileFlags returns the dotenv file path given via -env, or "".
func EnvFileFlags() string {
	return lookupString("env")
}
