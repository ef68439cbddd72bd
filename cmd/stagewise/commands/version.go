// ABOUTME: Version command reporting how this binary was built
// ABOUTME: Falls back to Go build info when goreleaser did not stamp the release
package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// VersionInfo describes the running binary
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
	Go      string `json:"go"`
}

// SetVersion records the values stamped by the release build
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// resolveVersion fills unstamped fields from the module and VCS build settings
func resolveVersion() VersionInfo {
	v := versionInfo
	v.Go = runtime.Version()

	bi, ok := readBuildInfo()
	if !ok {
		return v
	}
	if v.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		v.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && v.Commit == "none":
			v.Commit = s.Value
			if len(v.Commit) > 12 {
				v.Commit = v.Commit[:12]
			}
		case s.Key == "vcs.time" && v.Date == "unknown":
			v.Date = s.Value
		}
	}
	return v
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := resolveVersion()
			w := cmd.OutOrStdout()

			switch {
			case outputFormat == "json":
				data, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			case quiet:
				_, err := fmt.Fprintln(w, v.Version)
				return err
			}

			fmt.Fprintf(w, "stagewise %s (%s, built %s)\n", v.Version, v.Commit, v.Date)
			_, err := fmt.Fprintf(w, "%s %s/%s\n", v.Go, runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
