package cli

import "github.com/urfave/cli/v3"

// joinFlags flattens per-config flag groups into a single flag list
// for a command definition.
func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
