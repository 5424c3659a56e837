// Package version provides build metadata for the pager binary.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/pager/version.Version=1.2.3 \
//	  -X github.com/ncobase/pager/version.Branch=main \
//	  -X github.com/ncobase/pager/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/pager/version.BuiltAt=$(date)'"
//
// Without ldflags, GetVersionInfo falls back to the module version and the
// VCS revision and time recorded by the go command.
package version
