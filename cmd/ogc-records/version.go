// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ogc-records version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionString(info))
	},
}

// versionString formats the ldflags version followed by the Go toolchain
// and VCS revision recorded in the binary, when present.
func versionString(info *debug.BuildInfo) string {
	parts := []string{"ogc-records " + version}
	if info == nil {
		return parts[0]
	}
	parts = append(parts, info.GoVersion)
	for _, s := range info.Settings {
		if s.Key != "vcs.revision" || s.Value == "" {
			continue
		}
		rev := s.Value
		if len(rev) > 12 {
			rev = rev[:12]
		}
		parts = append(parts, rev)
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
