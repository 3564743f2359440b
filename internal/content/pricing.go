package content

import "sitesync/internal/control"

// Plan is one pricing tier as described by the control document. Prices on
// the page come from the remote pricing feed; Price here is display copy.
type Plan struct {
	Name     string   `json:"name"`
	Price    string   `json:"price,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Features []string `json:"features"`
}

var planSpec = control.ItemSpec[Plan]{
	Section: sectionPricing,
	Marker:  "### Plan: ",
	New: func(heading string, _ int) Plan {
		return Plan{Name: heading, Features: []string{}}
	},
	Rules: []control.Rule[Plan]{
		{Label: "**Price:**", Set: func(p *Plan, v string) { p.Price = v }},
		{Label: "**Subtitle:**", Set: func(p *Plan, v string) { p.Subtitle = v }},
	},
	Bullet: func(p *Plan, text string) { p.Features = append(p.Features, text) },
}

// ParsePricing reads the "### Plan: " blocks of the Pricing section.
func ParsePricing(document string) []Plan {
	plans := control.ScanItems(document, planSpec)
	if plans == nil {
		return []Plan{}
	}
	return plans
}
