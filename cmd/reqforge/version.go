package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// buildVersion is what `reqforge version` reports.
type buildVersion struct {
	Release   string // VERSION file contents, without the v prefix
	Module    string // module version stamped by go install, if any
	Revision  string
	Modified  bool
	GoVersion string
}

func readBuildVersion() buildVersion {
	v := buildVersion{Release: strings.TrimPrefix(strings.TrimSpace(embeddedVersion), "v")}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	v.GoVersion = info.GoVersion
	if info.Main.Version != "(devel)" {
		v.Module = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			v.Revision = s.Value
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v
}

// String formats releases as v0.1.0 and source builds as
// v0.1.0-dev+abc1234, with a -dirty suffix for uncommitted changes.
func (v buildVersion) String() string {
	if v.Module != "" {
		return v.Module
	}
	s := "v" + v.Release + "-dev"
	if len(v.Revision) >= 7 {
		s += "+" + v.Revision[:7]
	}
	if v.Modified {
		s += "-dirty"
	}
	return s
}
