// Package flagx holds small helpers that let several config layers share
// os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of the allowed flags and their
// values. Both "-c conf.json" and "-c=conf.json" forms are recognised.
func FilterArgs(args []string, allowedFlags []string) []string {
	return FilterArgsWithSwitches(args, allowedFlags, nil)
}

// FilterArgsWithSwitches is FilterArgs for flag sets that also contain
// boolean switches. A switch never consumes the following token as its
// value, so "-o -b memory" and "-o photos" keep their meaning.
func FilterArgsWithSwitches(args []string, allowedFlags []string, switches []string) []string {
	allowed := make(map[string]bool, len(allowedFlags)+len(switches))
	for _, f := range allowedFlags {
		allowed[f] = false
	}
	for _, f := range switches {
		allowed[f] = true
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

		isSwitch, ok := allowed[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if isSwitch {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given with -c or -config in
// os.Args, or an empty string when neither is present.
func JsonConfigFlags() string {
	return JsonConfigPath(os.Args[1:])
}

// JsonConfigPath is JsonConfigFlags over an explicit argument list.
func JsonConfigPath(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
