package content

import "sitesync/internal/control"

// Content is everything resolved from one control tree.
type Content struct {
	Hero          Hero      `json:"hero"`
	Chapters      []Chapter `json:"chapters"`
	Plans         []Plan    `json:"plans"`
	Styles        Styles    `json:"styles"`
	VisionCaption string    `json:"visionCaption"`
	Final         FinalCTA  `json:"final"`
	TechStack     []string  `json:"techStack"`
}

// Load resolves the full content of a control tree. It never fails: every
// value has a documented default.
func Load(r *control.Resolver, lister DirLister) Content {
	tech := control.ExtractList(r.Document, sectionTech)
	if tech == nil {
		tech = []string{}
	}
	return Content{
		Hero:          resolveHero(r),
		Chapters:      ParseChapters(r, lister),
		Plans:         ParsePricing(r.Document),
		Styles:        ResolveStyles(r),
		VisionCaption: r.Resolve(FieldVisionCaption),
		Final:         resolveFinal(r),
		TechStack:     tech,
	}
}
