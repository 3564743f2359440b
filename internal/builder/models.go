// internal/builder/models.go
package builder

import (
	"time"

	"sitesync/internal/config"
	"sitesync/internal/content"
	"sitesync/internal/project"
	"sitesync/internal/remote"
)

// Input is everything the data bag is built from. It is assembled once per
// run by the syncer.
type Input struct {
	Project  project.Descriptor
	Content  content.Content
	Remote   remote.Config
	Support  config.SupportConfig
	Firebase config.FirebaseConfig
	// AssetBase is the public URL of the project's asset folder.
	AssetBase string
	// HeroImage is the public URL of the selected hero media, or "".
	HeroImage string
	Now       time.Time
}

// Page is one rendered output file.
type Page struct {
	// Output is the path relative to the output directory.
	Output string
	// Source names the template the page came from: a control file or
	// "builtin".
	Source   string
	Template string
	Text     string
}

// Report lists what a write pass did.
type Report struct {
	Written []string
	Skipped []string
}
