// Command collabtexd runs the collaborative document server described by
// the protocol in wire/request.go: one TCP socket, line-oriented
// requests, broadcast responses.
package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deepakn94/CollabTeX/registry"
	"github.com/deepakn94/CollabTeX/server"
)

const defaultPort = 4444

func main() {
	var metricsAddr string
	var colorsFlag string

	root := &cobra.Command{
		Use:   "collabtexd [port]",
		Short: "Collaborative document server core",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port := defaultPort
			if len(args) == 1 {
				p, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid port %q: %w", args[0], err)
				}
				port = p
			}
			palette, err := parsePalette(colorsFlag)
			if err != nil {
				return err
			}
			addr := fmt.Sprintf(":%d", port)
			return server.ServeOptions(addr, server.Options{
				MetricsAddr: metricsAddr,
				Palette:     palette,
			})
		},
	}
	root.Flags().StringVar(&metricsAddr, "metrics-addr", ":9444", "address for the /metrics HTTP listener; empty disables it")
	root.Flags().StringVar(&colorsFlag, "colors", "", `override the six-entry color palette, e.g. "255,0,0;0,255,0"`)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

// parsePalette parses a ";"-separated list of "R,G,B" triples. An empty
// string means "use the default palette".
func parsePalette(s string) ([]registry.Color, error) {
	if s == "" {
		return nil, nil
	}
	groups := strings.Split(s, ";")
	palette := make([]registry.Color, 0, len(groups))
	for _, g := range groups {
		parts := strings.Split(g, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid color %q: want \"R,G,B\"", g)
		}
		var vals [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid color %q: %w", g, err)
			}
			vals[i] = v
		}
		palette = append(palette, registry.Color{R: vals[0], G: vals[1], B: vals[2]})
	}
	return palette, nil
}
