package release

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Decision is the outcome of comparing the installed version against the
// resolved one.
type Decision struct {
	// UpToDate means the marker exactly matches the resolved version and the
	// run can stop with no side effects.
	UpToDate bool

	// Direction is "upgrade" or "downgrade" when both versions parse as
	// semver, empty otherwise. Informational only; a mismatch installs
	// either way.
	Direction string
}

// Gate compares versions. Only an exact string match counts as up to date.
func Gate(installed, resolved string) Decision {
	if installed != "" && installed == resolved {
		return Decision{UpToDate: true}
	}

	var d Decision
	a, b := canonical(installed), canonical(resolved)
	if semver.IsValid(a) && semver.IsValid(b) {
		switch semver.Compare(b, a) {
		case 1:
			d.Direction = "upgrade"
		case -1:
			d.Direction = "downgrade"
		}
	}

	return d
}

// canonical adds the v prefix semver.IsValid requires. Windsurf versions
// come bare ("1.102.3").
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}

	return v
}
