package strategy

import (
	"strings"
	"unicode"

	"github.com/donaldgifford/pubcfg/internal/manifest"
)

// KnownLicense is a predefined license declaration keyed by its SPDX id.
type KnownLicense struct {
	SPDX    string
	Aliases []string
	manifest.License
}

var licenseCatalog = []KnownLicense{
	{SPDX: "Apache-2.0", License: manifest.License{
		Name: "The Apache License, Version 2.0", URL: "https://www.apache.org/licenses/LICENSE-2.0.txt", Distribution: "repo",
	}, Aliases: []string{"Apache License 2.0", "Apache 2"}},
	{SPDX: "MIT", License: manifest.License{
		Name: "MIT License", URL: "https://opensource.org/licenses/MIT", Distribution: "repo",
	}},
	{SPDX: "GPL-3.0", License: manifest.License{
		Name: "GNU General Public License v3.0", URL: "https://www.gnu.org/licenses/gpl-3.0.html", Distribution: "repo",
	}, Aliases: []string{"GPL-3.0-only", "GPLv3"}},
	{SPDX: "BSD-2-Clause", License: manifest.License{
		Name: "BSD 2-Clause License", URL: "https://opensource.org/licenses/BSD-2-Clause", Distribution: "repo",
	}},
	{SPDX: "BSD-3-Clause", License: manifest.License{
		Name: "BSD 3-Clause License", URL: "https://opensource.org/licenses/BSD-3-Clause", Distribution: "repo",
	}},
	{SPDX: "EPL-2.0", License: manifest.License{
		Name: "Eclipse Public License 2.0", URL: "https://www.eclipse.org/legal/epl-2.0/", Distribution: "repo",
	}},
	{SPDX: "LGPL-3.0", License: manifest.License{
		Name: "GNU Lesser General Public License v3.0", URL: "https://www.gnu.org/licenses/lgpl-3.0.html", Distribution: "repo",
	}, Aliases: []string{"LGPL-3.0-only", "LGPLv3"}},
	{SPDX: "MPL-2.0", License: manifest.License{
		Name: "Mozilla Public License 2.0", URL: "https://www.mozilla.org/en-US/MPL/2.0/", Distribution: "repo",
	}, Aliases: []string{"Mozilla-2.0"}},
}

// LookupLicense finds a predefined license by SPDX id, alias or display
// name. Case, spaces and punctuation are ignored, so "apache_2_0" matches
// "Apache-2.0".
func LookupLicense(s string) (KnownLicense, bool) {
	key := licenseKey(s)
	if key == "" {
		return KnownLicense{}, false
	}

	for _, k := range licenseCatalog {
		if licenseKey(k.SPDX) == key || licenseKey(k.Name) == key {
			return k, true
		}

		for _, a := range k.Aliases {
			if licenseKey(a) == key {
				return k, true
			}
		}
	}

	return KnownLicense{}, false
}

// KnownLicenses returns the SPDX ids of the predefined licenses.
func KnownLicenses() []string {
	ids := make([]string, len(licenseCatalog))
	for i, k := range licenseCatalog {
		ids[i] = k.SPDX
	}

	return ids
}

func licenseKey(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}
